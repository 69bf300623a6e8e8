package multilat

import (
	"multilat/internal/hcluster"
	"multilat/pkg/geometry"
)

// Radius scale factors used to recover near-intersections of circles that
// miss each other because of radius noise.
const (
	nearMissGrow   = 1.1
	nearMissShrink = 0.9
)

// Estimate is the output of the cluster-count estimator.
type Estimate struct {
	// NumClusters is the estimated number of distinct sources.
	NumClusters int

	// Centroids seeds the first solve of each cluster.
	Centroids []geometry.Point2D

	// CircleClusters is the initial cluster of each input circle.
	CircleClusters []int

	// Points is the clustered point cloud: centers and (near-)intersections.
	Points []geometry.Point2D

	// Sizes is the number of cloud points in each cluster.
	Sizes []int
}

// EstimateClusters estimates the number of sources by single-linkage
// clustering of circle centers and pairwise (near-)intersection points,
// cutting links longer than threshold.
func EstimateClusters(circles []geometry.Circle, threshold float64) *Estimate {
	points, centerIdx := pointCloud(circles)
	return newEstimate(hcluster.Threshold(points, threshold), points, centerIdx)
}

// EstimateClustersK clusters the same point cloud as EstimateClusters into
// at most k clusters.
func EstimateClustersK(circles []geometry.Circle, k int) *Estimate {
	points, centerIdx := pointCloud(circles)
	return newEstimate(hcluster.CutK(points, k), points, centerIdx)
}

func newEstimate(res *hcluster.Result, points []geometry.Point2D, centerIdx []int) *Estimate {
	est := &Estimate{
		NumClusters:    res.NumClusters(),
		Centroids:      res.Centroids,
		CircleClusters: make([]int, len(centerIdx)),
		Points:         points,
		Sizes:          res.Sizes(),
	}
	for i, idx := range centerIdx {
		est.CircleClusters[i] = res.Labels[idx]
	}
	return est
}

// pointCloud returns every circle center plus the intersection points of
// each circle pair, and the index of each circle's center in the cloud.
func pointCloud(circles []geometry.Circle) ([]geometry.Point2D, []int) {
	var points []geometry.Point2D
	centerIdx := make([]int, len(circles))

	for i, a := range circles {
		centerIdx[i] = len(points)
		points = append(points, a.Center)

		for _, b := range circles[i+1:] {
			if ix, ok := nearIntersection(a, b); ok {
				points = append(points, ix.Points[0], ix.Points[1])
			}
		}
	}
	return points, centerIdx
}

// nearIntersection intersects a and b. Separate circles are retried with
// both radii grown; contained circles with the outer shrunk and the inner
// grown.
func nearIntersection(a, b geometry.Circle) (geometry.Intersection, bool) {
	ix := geometry.Intersect(a, b)

	switch ix.Case {
	case geometry.Separate:
		ix = geometry.Intersect(
			a.WithRadius(a.Radius*nearMissGrow),
			b.WithRadius(b.Radius*nearMissGrow),
		)
	case geometry.Contained:
		ra, rb := nearMissGrow, nearMissShrink
		if ix.AContainsB {
			ra, rb = nearMissShrink, nearMissGrow
		}
		ix = geometry.Intersect(a.WithRadius(a.Radius*ra), b.WithRadius(b.Radius*rb))
	}
	return ix, ix.Case.Intersects()
}
