// Package lqr solves the infinite-horizon discrete-time linear quadratic
// regulator problem.
//
// For a system x[k+1] = A x[k] + B u[k] and the cost
//
//	J = Σ xᵀQx + uᵀRu
//
// [Solve] iterates the discrete algebraic Riccati equation
//
//	P' = AᵀPA − AᵀPB (R + BᵀPB)⁺ BᵀPA + Q
//
// from P = Q until successive iterates differ by less than a tolerance,
// then returns the gain K = (BᵀPB + R)⁺ BᵀPA for the law u = −Kx.
// Pseudo-inverses keep near-singular operating points finite.
//
// Every function is deterministic and safe for concurrent use.
package lqr
