package lqr

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

var log = logrus.WithField("module", "lqr")

var (
	// ErrDimensionMismatch indicates A, B, Q and R do not describe one system.
	ErrDimensionMismatch = errors.New("lqr: one or more matrices have incompatible dimensions")

	// ErrFactorization indicates the SVD used for a pseudo-inverse failed.
	ErrFactorization = errors.New("lqr: singular value decomposition failed")
)

// Solution is the outcome of one Riccati solve.
type Solution struct {
	K          *mat.Dense // m×n feedback gain
	P          *mat.Dense // n×n last Riccati iterate
	Iterations int
	Diff       float64 // max elementwise change of the last iteration
	Converged  bool
}

// Solve computes the steady-state LQR gain. A must be n×n, B n×m, Q n×n and
// R m×m; anything else is rejected before any work is done. Reaching
// maxIter without meeting tolerance is not an error: the last iterate is
// used, Converged is false and a warning is logged.
func Solve(a, b, q, r mat.Matrix, tolerance float64, maxIter int) (*Solution, error) {
	n, nc := a.Dims()
	bn, m := b.Dims()
	qr, qc := q.Dims()
	rr, rc := r.Dims()
	if n != nc || bn != n || qr != qc || qr != n || rr != rc || rr != m {
		return nil, fmt.Errorf("%w: A %dx%d, B %dx%d, Q %dx%d, R %dx%d",
			ErrDimensionMismatch, n, nc, bn, m, qr, qc, rr, rc)
	}

	p := mat.DenseCopyOf(q)
	diff := math.Inf(1)
	iter := 0
	for iter < maxIter && diff > tolerance {
		iter++
		next, err := riccatiStep(a, b, q, r, p)
		if err != nil {
			return nil, err
		}
		diff = maxAbsDiff(next, p)
		p = next
	}

	converged := diff <= tolerance
	if !converged {
		log.WithFields(logrus.Fields{
			"iterations": iter,
			"diff":       diff,
			"tolerance":  tolerance,
		}).Warn("riccati iteration did not converge, using last iterate")
	}

	k, err := gain(a, b, r, p)
	if err != nil {
		return nil, err
	}

	return &Solution{K: k, P: p, Iterations: iter, Diff: diff, Converged: converged}, nil
}

func riccatiStep(a, b, q, r mat.Matrix, p *mat.Dense) (*mat.Dense, error) {
	var pa, pb mat.Dense
	pa.Mul(p, a)
	pb.Mul(p, b)

	var atpa, atpb, btpb, btpa mat.Dense
	atpa.Mul(a.T(), &pa)
	atpb.Mul(a.T(), &pb)
	btpb.Mul(b.T(), &pb)
	btpa.Mul(b.T(), &pa)

	var s mat.Dense
	s.Add(r, &btpb)
	sInv, err := Pinv(&s)
	if err != nil {
		return nil, err
	}

	var tmp, corr mat.Dense
	tmp.Mul(&atpb, sInv)
	corr.Mul(&tmp, &btpa)

	var next mat.Dense
	next.Sub(&atpa, &corr)
	next.Add(&next, q)
	return &next, nil
}

func gain(a, b, r mat.Matrix, p *mat.Dense) (*mat.Dense, error) {
	var pa, pb, btpa, btpb, s mat.Dense
	pa.Mul(p, a)
	pb.Mul(p, b)
	btpa.Mul(b.T(), &pa)
	btpb.Mul(b.T(), &pb)
	s.Add(&btpb, r)

	sInv, err := Pinv(&s)
	if err != nil {
		return nil, err
	}
	var k mat.Dense
	k.Mul(sInv, &btpa)
	return &k, nil
}

func maxAbsDiff(x, y *mat.Dense) float64 {
	r, c := x.Dims()
	d := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d = math.Max(d, math.Abs(x.At(i, j)-y.At(i, j)))
		}
	}
	return d
}
