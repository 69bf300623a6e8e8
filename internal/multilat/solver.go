package multilat

import (
	"fmt"
	"math"
	"math/rand"

	"multilat/pkg/geometry"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// maxMajorIterations bounds each local optimization.
const maxMajorIterations = 500

// Solve runs the iterative multilateration on circles: it seeds clusters
// with the estimator, then alternates a per-cluster multi-start solve with
// reassignment of every circle to its best-fitting cluster, for
// cfg.ReclusterIters iterations. The lowest-loss partition seen is returned.
//
// Only ErrInvalidInput is returned; numeric degeneracies are absorbed.
func Solve(circles []geometry.Circle, cfg SolverConfig, opts ...Option) (*Result, error) {
	if err := validateCircles(circles); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	s := &solver{
		cfg:         cfg,
		rng:         o.rng,
		log:         o.logger,
		onIteration: o.onIteration,
	}
	return s.run(circles), nil
}

func validateCircles(circles []geometry.Circle) error {
	if len(circles) == 0 {
		return fmt.Errorf("%w: no circles", ErrInvalidInput)
	}
	for i, c := range circles {
		if !c.Center.IsFinite() || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
			return fmt.Errorf("%w: circle %d is not finite", ErrInvalidInput, i)
		}
		if c.Radius < 0 {
			return fmt.Errorf("%w: circle %d has negative radius %g", ErrInvalidInput, i, c.Radius)
		}
	}
	return nil
}

type solver struct {
	cfg         SolverConfig
	rng         *rand.Rand
	log         *zap.Logger
	onIteration func(Iteration)
}

func (s *solver) run(input []geometry.Circle) *Result {
	circles := cloneCircles(input)
	partition, seeds := s.seed(circles)
	k := len(seeds)
	iters := s.cfg.ReclusterIters

	// Local limits kick in once partitions have had a chance to settle.
	localFrom := math.Max(2, float64(iters)/4)

	bestTotal := math.Inf(1)
	var best, current []Candidate
	losses := make([]float64, 0, iters)

	for iter := 0; iter < iters; iter++ {
		groups := groupCircles(circles, partition, k)
		useLocal := float64(iter) >= localFrom

		prev := current
		current = make([]Candidate, k)
		for j, group := range groups {
			switch {
			case len(group) == 0 && iter > 0:
				// Every circle was taken by other clusters: keep the last answer.
				c := prev[j].Clone()
				c.Circles = nil
				current[j] = c
				s.log.Debug("cluster empty, carrying forward",
					zap.Int("iteration", iter), zap.Int("cluster", j))
			case len(group) == 0:
				current[j] = unsolved(j, seeds[j])
				s.log.Debug("cluster empty at seeding",
					zap.Int("cluster", j), zap.Float64("x", seeds[j].X), zap.Float64("y", seeds[j].Y))
			default:
				var start *geometry.Point2D
				if iter == 0 {
					start = &seeds[j]
				} else if prev[j].HasPoint {
					p := prev[j].Point
					start = &p
				}
				current[j] = s.solveCluster(j, group, useLocal, start)
			}
		}

		total := totalLoss(current)
		losses = append(losses, total)
		s.log.Debug("iteration solved",
			zap.Int("iteration", iter),
			zap.Float64("total_loss", total),
			zap.Bool("local_limits", useLocal))

		if total < bestTotal {
			bestTotal = total
			best = cloneCandidates(current)
		}

		if s.onIteration != nil {
			s.onIteration(Iteration{
				Index:      iter,
				TotalLoss:  total,
				Circles:    withClusters(circles, partition),
				Candidates: cloneCandidates(current),
			})
		}

		reassign(circles, partition, current)
	}

	if best == nil {
		s.log.Debug("no iteration improved on the initial loss, using the last iteration")
		best = current
	}
	resolveAll(best, s.cfg.HighlightRadius)

	return &Result{
		Candidates:          best,
		BestTotalLoss:       bestTotal,
		XLim:                s.cfg.XLim,
		YLim:                s.cfg.YLim,
		HighlightRadius:     s.cfg.HighlightRadius,
		ClusteringThreshold: s.cfg.ClusteringThreshold,
		NumClusters:         k,
		IterationLosses:     losses,
		Circles:             withClusters(circles, partition),
	}
}

// seed chooses the cluster count and returns the initial partition and the
// per-cluster starting points.
func (s *solver) seed(circles []geometry.Circle) ([]int, []geometry.Point2D) {
	var est *Estimate
	if s.cfg.NumClusters > 0 {
		est = EstimateClustersK(circles, s.cfg.NumClusters)
	} else {
		est = EstimateClusters(circles, s.cfg.ClusteringThreshold)
	}

	seeds := append([]geometry.Point2D(nil), est.Centroids...)
	// More clusters requested than the point cloud can separate.
	for len(seeds) < s.cfg.NumClusters {
		seeds = append(seeds, s.randomPoint(s.cfg.XLim, s.cfg.YLim))
	}

	s.log.Debug("clusters seeded",
		zap.Int("clusters", len(seeds)),
		zap.Int("cloud_points", len(est.Points)),
		zap.Ints("cloud_sizes", est.Sizes),
		zap.Ints("circle_clusters", est.CircleClusters))

	return append([]int(nil), est.CircleClusters...), seeds
}

// solveCluster finds the point minimizing the loss of group by running
// OptTrials local optimizations and keeping the first lowest result.
func (s *solver) solveCluster(index int, group []geometry.Circle, useLocal bool, start *geometry.Point2D) Candidate {
	loss := NewLoss(group)

	xl, yl := s.cfg.XLim, s.cfg.YLim
	if useLocal {
		xl, yl = geometry.CircleExtents(group)
	}

	c := Candidate{
		Index:   index,
		Loss:    math.Inf(1),
		Circles: cloneCircles(group),
	}
	for trial := 0; trial < s.cfg.OptTrials; trial++ {
		var p0 geometry.Point2D
		if trial == 0 && start != nil {
			p0 = *start
		} else {
			p0 = s.randomPoint(xl, yl)
		}

		p, f, ok := s.minimize(loss, p0)
		if !ok {
			continue
		}
		if f < c.Loss {
			c.Loss = f
			c.Point = p
			c.HasPoint = true
			c.Solved = true
		}
	}

	s.log.Debug("cluster solved",
		zap.Int("cluster", index),
		zap.Int("circles", loss.Len()),
		zap.Float64("loss", c.Loss),
		zap.Bool("solved", c.Solved))
	return c
}

// minimize runs one local optimization from p0. ok is false when the
// optimizer produced no usable location.
func (s *solver) minimize(loss *Loss, p0 geometry.Point2D) (geometry.Point2D, float64, bool) {
	settings := &optimize.Settings{MajorIterations: maxMajorIterations}

	res, err := optimize.Minimize(loss.Problem(), p0.Slice(), settings, s.cfg.Method.newOptimizer())
	if res == nil || res.Stats.MajorIterations == 0 {
		s.log.Debug("optimizer failed to start", zap.Error(err),
			zap.Float64("x0", p0.X), zap.Float64("y0", p0.Y))
		return geometry.Point2D{}, 0, false
	}
	if err != nil {
		s.log.Debug("optimizer stopped early", zap.Error(err), zap.Stringer("status", res.Status))
	}

	p := geometry.PointFromSlice(res.X)
	if !p.IsFinite() {
		return geometry.Point2D{}, 0, false
	}
	f := loss.Value(res.X)
	if math.IsNaN(f) {
		return geometry.Point2D{}, 0, false
	}
	return p, f, true
}

func (s *solver) randomPoint(xl, yl geometry.Limits) geometry.Point2D {
	x := xl.Lerp(s.rng.Float64())
	y := yl.Lerp(s.rng.Float64())
	return geometry.NewPoint2D(x, y)
}

// groupCircles splits circles by cluster. Each member carries its cluster.
func groupCircles(circles []geometry.Circle, partition []int, k int) [][]geometry.Circle {
	groups := make([][]geometry.Circle, k)
	for i, c := range circles {
		c.Cluster = partition[i]
		groups[partition[i]] = append(groups[partition[i]], c)
	}
	return groups
}

// reassign moves every circle to the cluster whose point fits it best.
// Ties go to the lowest cluster index; clusters without a point are skipped.
func reassign(circles []geometry.Circle, partition []int, cands []Candidate) {
	for i, c := range circles {
		bestResidual := math.Inf(1)
		for _, cand := range cands {
			if !cand.HasPoint {
				continue
			}
			if r := c.Residual(cand.Point); r < bestResidual {
				bestResidual = r
				partition[i] = cand.Index
			}
		}
	}
}

func withClusters(circles []geometry.Circle, partition []int) []geometry.Circle {
	out := cloneCircles(circles)
	for i := range out {
		out[i].Cluster = partition[i]
	}
	return out
}
