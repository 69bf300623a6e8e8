package geometry

import (
	"math"
)

// Circle is a range measurement: a detector at Center estimating that some
// source lies Radius away from it.
type Circle struct {
	Center Point2D `json:"center" yaml:"center"`
	Radius float64 `json:"radius" yaml:"radius"`

	// Cluster is the index of the source the circle is currently attributed to.
	Cluster int `json:"cluster,omitempty" yaml:"cluster,omitempty"`

	// Label is an opaque caller tag carried through unchanged.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// NewCircle creates a new Circle.
func NewCircle(x, y, radius float64) Circle {
	return Circle{Center: Point2D{X: x, Y: y}, Radius: radius}
}

// WithRadius returns a copy of the circle with a different radius.
func (c Circle) WithRadius(r float64) Circle {
	c.Radius = r
	return c
}

// Residual returns | ||p - center|| - radius |, the fit error of p against the circle.
func (c Circle) Residual(p Point2D) float64 {
	return math.Abs(p.Distance(c.Center) - c.Radius)
}

// CircleExtents returns the x and y limits covering every circle's footprint.
func CircleExtents(circles []Circle) (Limits, Limits) {
	if len(circles) == 0 {
		return Limits{}, Limits{}
	}
	xl := Limits{Min: math.Inf(1), Max: math.Inf(-1)}
	yl := Limits{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, c := range circles {
		xl.Min = math.Min(xl.Min, c.Center.X-c.Radius)
		xl.Max = math.Max(xl.Max, c.Center.X+c.Radius)
		yl.Min = math.Min(yl.Min, c.Center.Y-c.Radius)
		yl.Max = math.Max(yl.Max, c.Center.Y+c.Radius)
	}
	return xl, yl
}

// IntersectionCase classifies how two circles relate.
type IntersectionCase int

const (
	// Crossing means the circles cross at two distinct points.
	Crossing IntersectionCase = iota
	// Tangent means the circles touch at exactly one point.
	Tangent
	// Separate means each circle lies outside the other.
	Separate
	// Contained means one circle lies strictly inside the other.
	Contained
	// Coincident means the circles are identical.
	Coincident
)

// String returns the case name.
func (c IntersectionCase) String() string {
	switch c {
	case Crossing:
		return "crossing"
	case Tangent:
		return "tangent"
	case Separate:
		return "separate"
	case Contained:
		return "contained"
	case Coincident:
		return "coincident"
	default:
		return "unknown"
	}
}

// Intersects reports whether the case yields real intersection points.
func (c IntersectionCase) Intersects() bool {
	return c == Crossing || c == Tangent
}

// Intersection is the result of intersecting two circles.
type Intersection struct {
	// Points holds the two intersection points. They are equal for Tangent
	// and meaningless unless Case.Intersects().
	Points [2]Point2D
	Case   IntersectionCase

	// AContainsB is set for Contained when the first circle is the outer one.
	AContainsB bool
}

// Intersect computes the intersection of two circles.
func Intersect(a, b Circle) Intersection {
	d := a.Center.Distance(b.Center)
	r0, r1 := a.Radius, b.Radius

	if d == 0 && r0 == r1 {
		return Intersection{Case: Coincident}
	}
	if d > r0+r1 {
		return Intersection{Case: Separate}
	}
	if d < math.Abs(r0-r1) {
		return Intersection{Case: Contained, AContainsB: r0 > r1}
	}

	// Distance from a's center to the chord midpoint, and half chord length.
	along := (r0*r0 - r1*r1 + d*d) / (2 * d)
	h2 := r0*r0 - along*along

	dir := b.Center.Sub(a.Center).Scale(1 / d)
	mid := a.Center.Add(dir.Scale(along))

	if h2 <= 0 {
		return Intersection{Points: [2]Point2D{mid, mid}, Case: Tangent}
	}

	h := math.Sqrt(h2)
	perp := Point2D{X: -dir.Y, Y: dir.X}.Scale(h)
	return Intersection{
		Points: [2]Point2D{mid.Add(perp), mid.Sub(perp)},
		Case:   Crossing,
	}
}
