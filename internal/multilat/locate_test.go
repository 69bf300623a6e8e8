package multilat

import (
	"math"
	"testing"

	"multilat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolved_Defaults(t *testing.T) {
	f, _ := LookupFixture("three-clusters")

	sc, err := Resolved(f.Circles, Config{})
	require.NoError(t, err)
	assert.Equal(t, geometry.NewLimits(-4, 30), sc.XLim)
	assert.Equal(t, geometry.NewLimits(1, 34), sc.YLim)
	assert.InDelta(t, 4.488449*2.525/2.5, sc.ClusteringThreshold, 1e-9)
	assert.InDelta(t, 0.2525, sc.HighlightRadius, 1e-9)
	assert.Equal(t, DefaultLocateOptTrials, sc.OptTrials)
	assert.Equal(t, DefaultLocateReclusterIters, sc.ReclusterIters)
	assert.Equal(t, MethodBFGS, sc.Method)
}

func TestResolved_KeepsExplicitValues(t *testing.T) {
	xl, yl := geometry.NewLimits(0, 50), geometry.NewLimits(-5, 5)
	cfg := Config{
		XLim:                &xl,
		YLim:                &yl,
		NumClusters:         4,
		ClusteringThreshold: 2,
		OptTrials:           3,
		ReclusterIters:      2,
		HighlightRadius:     1,
		Method:              MethodNelderMead,
	}
	sc, err := Resolved([]geometry.Circle{geometry.NewCircle(1, 1, 1)}, cfg)
	require.NoError(t, err)
	assert.Equal(t, SolverConfig{
		XLim:                xl,
		YLim:                yl,
		NumClusters:         4,
		ClusteringThreshold: 2,
		OptTrials:           3,
		ReclusterIters:      2,
		HighlightRadius:     1,
		Method:              MethodNelderMead,
	}, sc)
}

func TestLocate_ThreeClusters(t *testing.T) {
	f, _ := LookupFixture("three-clusters")

	res, err := Locate(f.Circles, Config{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, res.NumClusters)
	require.Len(t, res.Candidates, 5)

	cluster := func(i int) int { return res.Circles[i].Cluster }
	groups := [][]int{{0, 1, 2}, {3, 4, 5, 6}, {7, 8, 9}, {12, 13}}
	seen := make(map[int]bool)
	for _, g := range groups {
		for _, i := range g[1:] {
			assert.Equal(t, cluster(g[0]), cluster(i), "circle %d", i)
		}
		assert.False(t, seen[cluster(g[0])], "group %v shares a cluster", g)
		seen[cluster(g[0])] = true
	}

	// A circle badly fit by its own source must not be well fit by another.
	points := make(map[int]geometry.Point2D)
	for _, c := range res.Candidates {
		if c.HasPoint {
			points[c.Index] = c.Point
		}
	}
	for i, c := range res.Circles {
		own, ok := points[c.Cluster]
		if !ok || c.Residual(own) <= 2 {
			continue
		}
		for idx, p := range points {
			if idx != c.Cluster {
				assert.GreaterOrEqual(t, c.Residual(p), 0.5, "circle %d fits source %d better", i, idx)
			}
		}
	}

	for _, l := range res.IterationLosses {
		assert.LessOrEqual(t, res.BestTotalLoss, l)
	}
	assert.NotEmpty(t, res.Points())
}

func TestLocate_TwoCircles(t *testing.T) {
	f, _ := LookupFixture("two-circles")

	res, err := Locate(f.Circles, Config{})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	pts := res.Points()
	require.Len(t, pts, 2)
	for _, p := range pts {
		assert.InDelta(t, 0, f.Circles[0].Residual(p), 1e-3)
		assert.InDelta(t, 0, f.Circles[1].Residual(p), 1e-3)
	}
	assertIntersectionPoints(t, pts)
}

// assertIntersectionPoints checks pts against the closed-form crossing of
// the two-circles fixture, (5+2/3, 5±sqrt(4-4/9)), in either order.
func assertIntersectionPoints(t *testing.T, pts []geometry.Point2D) {
	t.Helper()
	require.Len(t, pts, 2)
	h := math.Sqrt(4 - 4.0/9)
	hi, lo := pts[0], pts[1]
	if hi.Y < lo.Y {
		hi, lo = lo, hi
	}
	assert.InDelta(t, 5+2.0/3, hi.X, 1e-9)
	assert.InDelta(t, 5+h, hi.Y, 1e-9)
	assert.InDelta(t, 5+2.0/3, lo.X, 1e-9)
	assert.InDelta(t, 5-h, lo.Y, 1e-9)
}

func TestLocate_OneCircle(t *testing.T) {
	f, _ := LookupFixture("one-circle")

	res, err := Locate(f.Circles, Config{})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	require.Len(t, res.Candidates[0].Ambiguity, 1)
	ap := res.Candidates[0].Ambiguity[0]
	assert.Equal(t, geometry.NewPoint2D(3, 3), ap.Point)
	assert.InDelta(t, 1.8, ap.Radius, 1e-12)
}

func TestLocate_SeedIsReproducible(t *testing.T) {
	f, _ := LookupFixture("contained")

	a, err := Locate(f.Circles, Config{Seed: 9})
	require.NoError(t, err)
	b, err := Locate(f.Circles, Config{Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLocate_InvalidInput(t *testing.T) {
	circles := []geometry.Circle{geometry.NewCircle(1, 1, 1)}
	xl := geometry.NewLimits(0, 1)
	tests := []struct {
		name    string
		circles []geometry.Circle
		cfg     Config
	}{
		{"no circles", nil, Config{}},
		{"xlim without ylim", circles, Config{XLim: &xl}},
		{"ylim without xlim", circles, Config{YLim: &xl}},
		{"negative trials", circles, Config{OptTrials: -1}},
		{"negative threshold", circles, Config{ClusteringThreshold: -1}},
		{"unknown method", circles, Config{Method: "simplex"}},
		{"negative radius", []geometry.Circle{geometry.NewCircle(0, 0, -2)}, Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(tt.circles, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestFixtures(t *testing.T) {
	names := FixtureNames()
	require.NotEmpty(t, names)
	for _, name := range names {
		f, ok := LookupFixture(name)
		require.True(t, ok, name)
		assert.Equal(t, name, f.Name)
		assert.NotEmpty(t, f.Circles)
	}

	f, _ := LookupFixture("two-circles")
	f.Circles[0].Radius = 99
	again, _ := LookupFixture("two-circles")
	assert.Equal(t, 2.0, again.Circles[0].Radius)

	_, ok := LookupFixture("missing")
	assert.False(t, ok)
}
