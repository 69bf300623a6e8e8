package hcluster_test

import (
	"testing"

	"multilat/internal/hcluster"
	"multilat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(xy ...float64) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geometry.NewPoint2D(xy[i], xy[i+1]))
	}
	return out
}

func TestThreshold_TwoGroups(t *testing.T) {
	points := pts(
		0, 0, 1, 0, 0.5, 0.5, // group near origin
		10, 10, 11, 10, // group far away
	)

	res := hcluster.Threshold(points, 2)
	require.Equal(t, 2, res.NumClusters())
	assert.Equal(t, []int{0, 0, 0, 1, 1}, res.Labels)
	assert.Equal(t, []int{3, 2}, res.Sizes())
	assert.InDelta(t, 0.5, res.Centroids[0].X, 1e-12)
	assert.InDelta(t, 10.5, res.Centroids[1].X, 1e-12)
}

func TestThreshold_ChainsThroughSingleLinks(t *testing.T) {
	// Each neighbour is 1 apart; the ends are 4 apart. Single linkage chains them.
	points := pts(0, 0, 1, 0, 2, 0, 3, 0, 4, 0)

	res := hcluster.Threshold(points, 1)
	assert.Equal(t, 1, res.NumClusters())

	res = hcluster.Threshold(points, 0.5)
	assert.Equal(t, 5, res.NumClusters())
}

func TestThreshold_LabelsByFirstAppearance(t *testing.T) {
	points := pts(10, 10, 0, 0, 10, 11, 0, 1)

	res := hcluster.Threshold(points, 2)
	assert.Equal(t, []int{0, 1, 0, 1}, res.Labels)
}

func TestThreshold_SinglePoint(t *testing.T) {
	res := hcluster.Threshold(pts(3, 4), 0.1)
	require.Equal(t, 1, res.NumClusters())
	assert.Equal(t, []int{0}, res.Labels)
	assert.Equal(t, geometry.NewPoint2D(3, 4), res.Centroids[0])
}

func TestThreshold_Empty(t *testing.T) {
	res := hcluster.Threshold(nil, 1)
	assert.Equal(t, 0, res.NumClusters())
}

func TestCutK(t *testing.T) {
	points := pts(0, 0, 1, 0, 10, 0, 11, 0, 30, 0)

	tests := []struct {
		k      int
		labels []int
	}{
		{1, []int{0, 0, 0, 0, 0}},
		{2, []int{0, 0, 0, 0, 1}},
		{3, []int{0, 0, 1, 1, 2}},
		{9, []int{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		res := hcluster.CutK(points, tt.k)
		assert.Equal(t, tt.labels, res.Labels, "k=%d", tt.k)
	}
}

func TestCutK_DuplicatePoints(t *testing.T) {
	points := pts(1, 1, 1, 1, 1, 1)

	res := hcluster.CutK(points, 2)
	assert.Equal(t, 2, res.NumClusters())
	assert.Equal(t, 0, res.Labels[0])
	for _, c := range res.Centroids {
		assert.Equal(t, geometry.NewPoint2D(1, 1), c)
	}
}
