package multilat

import (
	"math"

	"multilat/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Loss is the fit objective of a candidate point against a fixed set of
// circles. All methods take the point as a two-element vector so they plug
// directly into optimize.Problem.
//
// The gradients are singular when p coincides with a circle center and
// then produce non-finite components.
type Loss struct {
	centers [][]float64
	radii   []float64
}

// NewLoss builds the loss for circles. The circles are copied.
func NewLoss(circles []geometry.Circle) *Loss {
	l := &Loss{
		centers: make([][]float64, len(circles)),
		radii:   make([]float64, len(circles)),
	}
	for i, c := range circles {
		l.centers[i] = c.Center.Slice()
		l.radii[i] = c.Radius
	}
	return l
}

// Len returns the number of circles in the loss.
func (l *Loss) Len() int {
	return len(l.radii)
}

// Value returns the sum of absolute radial residuals at p.
func (l *Loss) Value(p []float64) float64 {
	var sum float64
	for i, x := range l.centers {
		sum += math.Abs(floats.Distance(p, x, 2) - l.radii[i])
	}
	return sum
}

// Order returns sum | ||p - x||_ord - r |^ord, using the Minkowski ord-norm
// for the distance. Order(p, 2) is the squared-residual objective.
func (l *Loss) Order(p []float64, ord float64) float64 {
	var sum float64
	for i, x := range l.centers {
		sum += math.Pow(math.Abs(floats.Distance(p, x, ord)-l.radii[i]), ord)
	}
	return sum
}

// Gradient stores sum 2(d - r)(p - x)/d into grad, where d = ||p - x||.
// This is the exact gradient of Order(p, 2).
func (l *Loss) Gradient(grad, p []float64) {
	l.accumulate(grad, p, func(d, r float64) float64 {
		return 2 * (d - r) / d
	})
}

// Subgradient stores sum sign(d - r)(p - x)/d into grad, the gradient of
// Value wherever no residual is exactly zero.
func (l *Loss) Subgradient(grad, p []float64) {
	l.accumulate(grad, p, func(d, r float64) float64 {
		switch {
		case d > r:
			return 1 / d
		case d < r:
			return -1 / d
		default:
			return 0
		}
	})
}

func (l *Loss) accumulate(grad, p []float64, coef func(d, r float64) float64) {
	for i := range grad {
		grad[i] = 0
	}
	diff := make([]float64, len(p))
	for i, x := range l.centers {
		floats.SubTo(diff, p, x)
		d := floats.Norm(diff, 2)
		floats.AddScaled(grad, coef(d, l.radii[i]), diff)
	}
}

// Problem returns the optimization problem minimizing Value.
func (l *Loss) Problem() optimize.Problem {
	return optimize.Problem{
		Func: l.Value,
		Grad: l.Subgradient,
	}
}
