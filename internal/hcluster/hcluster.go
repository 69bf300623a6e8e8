// Package hcluster implements single-linkage agglomerative clustering of 2D
// points, cut into flat clusters either by a distance threshold or by a
// target cluster count.
//
// Single linkage is computed from the Euclidean minimum spanning tree: two
// points share a flat cluster exactly when the longest MST edge on the path
// between them is within the cut distance.
package hcluster

import (
	"math"
	"sort"

	"multilat/pkg/geometry"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Result holds a flat clustering of the input points.
type Result struct {
	// Labels maps each input point to its cluster, numbered from zero in
	// order of first appearance in the input.
	Labels []int

	// Centroids holds the mean position of each cluster.
	Centroids []geometry.Point2D
}

// NumClusters returns the number of flat clusters.
func (r *Result) NumClusters() int {
	return len(r.Centroids)
}

// Sizes returns the number of points in each cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// Threshold clusters points so that members of a cluster are chained
// together by links no longer than threshold.
func Threshold(points []geometry.Point2D, threshold float64) *Result {
	if len(points) <= 1 {
		return single(points)
	}
	mst := spanningTree(points)

	var kept []graph.WeightedEdge
	for _, e := range mst {
		if e.Weight() <= threshold {
			kept = append(kept, e)
		}
	}
	return flatten(points, kept)
}

// CutK clusters points into exactly min(k, len(points)) clusters by removing
// the k-1 longest links of the spanning tree. Equal-length links are removed
// in order of their lowest endpoint index.
func CutK(points []geometry.Point2D, k int) *Result {
	if len(points) <= 1 {
		return single(points)
	}
	mst := spanningTree(points)

	drop := k - 1
	if drop < 0 {
		drop = 0
	}
	if drop > len(mst) {
		drop = len(mst)
	}

	// Longest first; ties keep the (from, to) order of spanningTree.
	sort.SliceStable(mst, func(i, j int) bool {
		return mst[i].Weight() > mst[j].Weight()
	})
	return flatten(points, mst[drop:])
}

// single handles the trivial zero- and one-point inputs.
func single(points []geometry.Point2D) *Result {
	if len(points) == 0 {
		return &Result{}
	}
	return &Result{
		Labels:    []int{0},
		Centroids: []geometry.Point2D{points[0]},
	}
}

// spanningTree returns the edges of the Euclidean minimum spanning tree over
// the complete graph of points, ordered by (weight, from, to).
func spanningTree(points []geometry.Point2D) []graph.WeightedEdge {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range points {
		g.AddNode(simple.Node(i))
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), points[i].Distance(points[j])))
		}
	}

	dst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(dst, g)

	edges := graph.WeightedEdgesOf(dst.WeightedEdges())
	for i, e := range edges {
		from, to := e.From().ID(), e.To().ID()
		if from > to {
			edges[i] = simple.WeightedEdge{F: e.To(), T: e.From(), W: e.Weight()}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Weight() != b.Weight() {
			return a.Weight() < b.Weight()
		}
		if a.From().ID() != b.From().ID() {
			return a.From().ID() < b.From().ID()
		}
		return a.To().ID() < b.To().ID()
	})
	return edges
}

// flatten labels the connected components formed by edges over all points.
func flatten(points []geometry.Point2D, edges []graph.WeightedEdge) *Result {
	g := simple.NewUndirectedGraph()
	for i := range points {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.SetEdge(g.NewEdge(e.From(), e.To()))
	}

	components := topo.ConnectedComponents(g)

	// Component of each point, then renumber by first appearance.
	comp := make([]int, len(points))
	for ci, nodes := range components {
		for _, n := range nodes {
			comp[n.ID()] = ci
		}
	}
	relabel := make(map[int]int, len(components))
	labels := make([]int, len(points))
	for i, c := range comp {
		l, ok := relabel[c]
		if !ok {
			l = len(relabel)
			relabel[c] = l
		}
		labels[i] = l
	}

	members := make([][]geometry.Point2D, len(relabel))
	for i, l := range labels {
		members[l] = append(members[l], points[i])
	}
	centroids := make([]geometry.Point2D, len(members))
	for l, m := range members {
		centroids[l] = geometry.Centroid(m)
	}

	return &Result{Labels: labels, Centroids: centroids}
}
