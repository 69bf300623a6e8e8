package multilat

import (
	"multilat/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// sharedCenterScale scales the mean member radius into the display radius
// of a cluster whose circles all share one center.
const sharedCenterScale = 0.9

// Resolve turns a candidate into its displayable result locations:
//   - circles sharing one center give that center, sized to their footprint;
//   - two intersecting circles give both intersection points;
//   - otherwise the solved point alone.
func Resolve(c Candidate, highlightRadius float64) []AmbiguityPoint {
	if center, radii, ok := sharedCenter(c.Circles); ok {
		return []AmbiguityPoint{{Point: center, Radius: sharedCenterScale * stat.Mean(radii, nil)}}
	}

	if len(c.Circles) == 2 {
		if ix := geometry.Intersect(c.Circles[0], c.Circles[1]); ix.Case.Intersects() {
			return []AmbiguityPoint{
				{Point: ix.Points[0], Radius: highlightRadius},
				{Point: ix.Points[1], Radius: highlightRadius},
			}
		}
	}

	if !c.HasPoint {
		return nil
	}
	return []AmbiguityPoint{{Point: c.Point, Radius: highlightRadius}}
}

func resolveAll(cands []Candidate, highlightRadius float64) {
	for i := range cands {
		cands[i].Ambiguity = Resolve(cands[i], highlightRadius)
	}
}

// sharedCenter reports whether all circles have an identical center,
// returning it along with the radii.
func sharedCenter(circles []geometry.Circle) (geometry.Point2D, []float64, bool) {
	if len(circles) == 0 {
		return geometry.Point2D{}, nil, false
	}
	center := circles[0].Center
	radii := make([]float64, len(circles))
	for i, c := range circles {
		if c.Center != center {
			return geometry.Point2D{}, nil, false
		}
		radii[i] = c.Radius
	}
	return center, radii, true
}
