package multilat

import (
	"errors"
	"fmt"

	"multilat/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned by LinearFix when the circles do not determine
// a point.
var ErrDegenerate = errors.New("multilat: degenerate circle geometry")

// LinearFix returns the closed-form least-squares position for circles
// that all measure the same source. Subtracting the first circle equation
// from the others leaves a linear system in (x, y), solved by QR. It needs
// at least three circles with non-collinear centers.
func LinearFix(circles []geometry.Circle) (geometry.Point2D, error) {
	n := len(circles)
	if n < 3 {
		return geometry.Point2D{}, fmt.Errorf("%w: need at least 3 circles, have %d", ErrDegenerate, n)
	}

	ref := circles[0]
	x0, y0, r0 := ref.Center.X, ref.Center.Y, ref.Radius

	// Build overdetermined system
	A := mat.NewDense(n-1, 2, nil)
	B := mat.NewVecDense(n-1, nil)

	for i, c := range circles[1:] {
		xi, yi, ri := c.Center.X, c.Center.Y, c.Radius
		A.Set(i, 0, 2*(xi-x0))
		A.Set(i, 1, 2*(yi-y0))
		B.SetVec(i, r0*r0-ri*ri+xi*xi-x0*x0+yi*yi-y0*y0)
	}

	var qr mat.QR
	qr.Factorize(A)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, B); err != nil {
		return geometry.Point2D{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	p := geometry.NewPoint2D(sol.AtVec(0), sol.AtVec(1))
	if !p.IsFinite() {
		return geometry.Point2D{}, ErrDegenerate
	}
	return p, nil
}
