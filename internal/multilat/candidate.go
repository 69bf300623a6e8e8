package multilat

import (
	"math"

	"multilat/pkg/geometry"
)

// Candidate is one candidate source: the point that best explains the
// circles currently attributed to cluster Index.
type Candidate struct {
	Index int `yaml:"index"`

	// Loss is the summed residual at Point, or +Inf when no solve
	// produced a value.
	Loss float64 `yaml:"loss"`

	// Solved is false when Loss was never produced by an optimization.
	Solved bool `yaml:"solved"`

	// Point is only meaningful when HasPoint is set.
	Point    geometry.Point2D `yaml:"point"`
	HasPoint bool             `yaml:"has_point"`

	Circles []geometry.Circle `yaml:"circles"`

	// Ambiguity holds the displayable result locations, filled in once
	// the run has finished.
	Ambiguity []AmbiguityPoint `yaml:"ambiguity,omitempty"`
}

// AmbiguityPoint is one displayable result location.
type AmbiguityPoint struct {
	Point  geometry.Point2D `yaml:"point"`
	Radius float64          `yaml:"radius"`
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	out.Circles = cloneCircles(c.Circles)
	if c.Ambiguity != nil {
		out.Ambiguity = append([]AmbiguityPoint(nil), c.Ambiguity...)
	}
	return out
}

func unsolved(index int, p geometry.Point2D) Candidate {
	return Candidate{Index: index, Loss: math.Inf(1), Point: p, HasPoint: true}
}

func cloneCircles(circles []geometry.Circle) []geometry.Circle {
	if circles == nil {
		return nil
	}
	return append([]geometry.Circle(nil), circles...)
}

func cloneCandidates(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		out[i] = c.Clone()
	}
	return out
}

func totalLoss(cands []Candidate) float64 {
	var total float64
	for _, c := range cands {
		total += c.Loss
	}
	return total
}

// Iteration is the state reported to an iteration hook.
type Iteration struct {
	Index      int
	TotalLoss  float64
	Circles    []geometry.Circle
	Candidates []Candidate
}

// Result is the outcome of a solver run.
type Result struct {
	// Candidates is the best-scoring partition seen, one entry per cluster.
	Candidates []Candidate `yaml:"candidates"`

	// BestTotalLoss is the lowest total loss over all iterations.
	BestTotalLoss float64 `yaml:"best_total_loss"`

	XLim                geometry.Limits `yaml:"xlim"`
	YLim                geometry.Limits `yaml:"ylim"`
	HighlightRadius     float64         `yaml:"highlight_radius"`
	ClusteringThreshold float64         `yaml:"clustering_threshold"`
	NumClusters         int             `yaml:"num_clusters"`

	// IterationLosses records the total loss of every iteration.
	IterationLosses []float64 `yaml:"iteration_losses"`

	// Circles holds the input circles with their final cluster assignment.
	Circles []geometry.Circle `yaml:"circles"`
}

// Points returns every ambiguity point across all candidates.
func (r *Result) Points() []geometry.Point2D {
	var pts []geometry.Point2D
	for _, c := range r.Candidates {
		for _, a := range c.Ambiguity {
			pts = append(pts, a.Point)
		}
	}
	return pts
}
