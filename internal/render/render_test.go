package render

import (
	"os"
	"path/filepath"
	"testing"

	"multilat/internal/multilat"
	"multilat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualAspect(t *testing.T) {
	xl, yl := equalAspect(geometry.NewLimits(0, 10), geometry.NewLimits(0, 4))
	assert.Equal(t, geometry.NewLimits(0, 10), xl)
	assert.Equal(t, geometry.NewLimits(-3, 7), yl)

	xl, yl = equalAspect(geometry.NewLimits(1, 3), geometry.NewLimits(0, 4))
	assert.Equal(t, geometry.NewLimits(0, 4), xl)
	assert.Equal(t, geometry.NewLimits(0, 4), yl)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "plotcircles.png"), ResultFile("out"))
	assert.Equal(t, filepath.Join("out", "plotcircles iter 3.png"), IterationFile("out", 3))
	assert.Equal(t, filepath.Join("out", "plotcircles init.png"), InitFile("out"))
}

func TestSceneLocations(t *testing.T) {
	amb := []multilat.AmbiguityPoint{
		{Point: geometry.NewPoint2D(1, 1), Radius: 0.1},
		{Point: geometry.NewPoint2D(2, 2), Radius: 0.1},
	}
	c := multilat.Candidate{Point: geometry.NewPoint2D(5, 5), HasPoint: true, Ambiguity: amb}

	s := Scene{HighlightRadius: 0.4, Mode: ModeAmbiguity}
	assert.Equal(t, amb, s.locations(c))

	s.Mode = ModePoints
	assert.Equal(t, []multilat.AmbiguityPoint{{Point: geometry.NewPoint2D(5, 5), Radius: 0.4}}, s.locations(c))

	assert.Nil(t, s.locations(multilat.Candidate{}))
}

func TestSave(t *testing.T) {
	f, ok := multilat.LookupFixture("two-circles")
	require.True(t, ok)
	res, err := multilat.Locate(f.Circles, multilat.Config{Seed: 1})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, mode := range []Mode{ModePoints, ModeAmbiguity} {
		path := filepath.Join(dir, "plot.png")
		require.NoError(t, Save(FromResult(res, mode), path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestFromIteration(t *testing.T) {
	it := multilat.Iteration{Index: 2, TotalLoss: 0.5}
	s := FromIteration(it, geometry.NewLimits(0, 1), geometry.NewLimits(0, 1), 0.2)
	assert.Contains(t, s.Title, "iter 2")
	assert.Equal(t, ModePoints, s.Mode)
}

func TestFromCircles(t *testing.T) {
	f, ok := multilat.LookupFixture("two-sources")
	require.True(t, ok)

	s := FromCircles(f.Circles, geometry.NewLimits(-5, 15), geometry.NewLimits(-5, 15))
	assert.Equal(t, "plotcircles init", s.Title)
	assert.Len(t, s.Circles, len(f.Circles))
	assert.Empty(t, s.Candidates)

	path := InitFile(t.TempDir())
	require.NoError(t, Save(s, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
