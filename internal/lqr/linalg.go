package lqr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pinv returns the Moore-Penrose pseudo-inverse of m. Singular values below
// max(rows, cols)·σmax·ε are treated as zero.
func Pinv(m mat.Matrix) (*mat.Dense, error) {
	r, c := m.Dims()

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrFactorization, r, c)
	}
	vals := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(vals) > 0 {
		cutoff = float64(max(r, c)) * vals[0] * eps
	}
	inv := mat.NewDense(len(vals), len(vals), nil)
	for i, s := range vals {
		if s > cutoff {
			inv.Set(i, i, 1/s)
		}
	}

	var vs, out mat.Dense
	vs.Mul(&v, inv)
	out.Mul(&vs, u.T())
	return &out, nil
}

var eps = math.Nextafter(1, 2) - 1

// Bilinear discretizes a continuous state matrix with the Tustin transform
// Ad = (I − dt/2·A)⁺ (I + dt/2·A).
func Bilinear(a mat.Matrix, dt float64) (*mat.Dense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("%w: state matrix is %dx%d", ErrDimensionMismatch, n, c)
	}

	half := mat.NewDense(n, n, nil)
	half.Scale(dt/2, a)

	left := identity(n)
	left.Sub(left, half)
	right := identity(n)
	right.Add(right, half)

	leftInv, err := Pinv(left)
	if err != nil {
		return nil, err
	}
	var ad mat.Dense
	ad.Mul(leftInv, right)
	return &ad, nil
}

func identity(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}
