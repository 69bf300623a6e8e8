package multilat

import (
	"fmt"

	"multilat/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Constants of the clustering-threshold heuristic. The threshold scales
// with the mean radius; the divisor depends on how the mean diameter
// compares with a reference field of referenceDiameter units.
const (
	thresholdScale    = 4.488449
	referenceDiameter = 34.0
	ratioCutoff       = 3.95
)

// highlightDivisor derives the default highlight radius from the mean radius.
const highlightDivisor = 10

// AutoClusteringThreshold returns the estimator cut distance for circles
// with mean radius meanRadius.
func AutoClusteringThreshold(meanRadius float64) float64 {
	ratio := referenceDiameter / (meanRadius * 3)
	if ratio < ratioCutoff {
		return thresholdScale * (meanRadius / 3)
	}
	return thresholdScale * (meanRadius / 2.5)
}

// MeanRadius returns the average radius of circles.
func MeanRadius(circles []geometry.Circle) float64 {
	radii := make([]float64, len(circles))
	for i, c := range circles {
		radii[i] = c.Radius
	}
	return stat.Mean(radii, nil)
}

// Locate finds the sources explaining circles. Unset configuration is
// derived from the input: limits from the circle extents, the clustering
// threshold and highlight radius from the mean radius, and the number of
// clusters by estimation.
func Locate(circles []geometry.Circle, cfg Config, opts ...Option) (*Result, error) {
	if len(circles) == 0 {
		return nil, fmt.Errorf("%w: no circles", ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateCircles(circles); err != nil {
		return nil, err
	}

	sc, err := Resolved(circles, cfg)
	if err != nil {
		return nil, err
	}

	// The config seed applies unless the caller supplies a source.
	opts = append([]Option{WithSeed(cfg.Seed)}, opts...)
	return Solve(circles, sc, opts...)
}

// Resolved fills in every unset field of cfg for circles.
func Resolved(circles []geometry.Circle, cfg Config) (SolverConfig, error) {
	if (cfg.XLim == nil) != (cfg.YLim == nil) {
		return SolverConfig{}, fmt.Errorf("%w: xlim and ylim must be given together", ErrInvalidInput)
	}
	meanRadius := MeanRadius(circles)

	sc := SolverConfig{
		NumClusters:         cfg.NumClusters,
		ClusteringThreshold: cfg.ClusteringThreshold,
		OptTrials:           cfg.OptTrials,
		ReclusterIters:      cfg.ReclusterIters,
		HighlightRadius:     cfg.HighlightRadius,
		Method:              cfg.Method,
	}

	if cfg.XLim != nil {
		sc.XLim, sc.YLim = *cfg.XLim, *cfg.YLim
	} else {
		sc.XLim, sc.YLim = geometry.CircleExtents(circles)
	}
	if sc.ClusteringThreshold == 0 {
		sc.ClusteringThreshold = AutoClusteringThreshold(meanRadius)
	}
	if sc.OptTrials == 0 {
		sc.OptTrials = DefaultLocateOptTrials
	}
	if sc.ReclusterIters == 0 {
		sc.ReclusterIters = DefaultLocateReclusterIters
	}
	if sc.HighlightRadius == 0 {
		sc.HighlightRadius = meanRadius / highlightDivisor
	}
	if sc.Method == "" {
		sc.Method = MethodBFGS
	}
	return sc, nil
}
