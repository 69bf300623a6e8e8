package main

import (
	"fmt"
	"io"
	"os"

	"multilat/internal/multilat"
	"multilat/internal/render"
	"multilat/pkg/geometry"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// solveFlags are the flags shared by the commands that run the solver.
// Config flags override the problem file only when given.
type solveFlags struct {
	clusters  int
	threshold float64
	trials    int
	iters     int
	highlight float64
	method    string
	seed      int64

	plot           bool
	plotIterations bool
	mode           string
	outDir         string
	resultPath     string
}

func (f *solveFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVarP(&f.clusters, "clusters", "k", 0, "Number of sources (0 estimates it)")
	fl.Float64Var(&f.threshold, "threshold", 0, "Clustering threshold (0 derives it from the mean radius)")
	fl.IntVar(&f.trials, "trials", 0, "Optimizer restarts per cluster (0 uses the default)")
	fl.IntVar(&f.iters, "iters", 0, "Recluster iterations (0 uses the default)")
	fl.Float64Var(&f.highlight, "highlight", 0, "Highlight radius of located points (0 derives it)")
	fl.StringVar(&f.method, "method", "", "Local optimizer: bfgs, lbfgs, cg or neldermead")
	fl.Int64Var(&f.seed, "seed", 0, "Random seed for optimizer restarts")

	fl.BoolVar(&f.plot, "plot", false, "Write the final plot")
	fl.BoolVar(&f.plotIterations, "plot-iterations", false, "Write a plot after every iteration")
	fl.StringVar(&f.mode, "mode", "ambiguity", "Final plot content: points or ambiguity")
	fl.StringVarP(&f.outDir, "out", "o", ".", "Output directory for plots")
	fl.StringVar(&f.resultPath, "result", "", "Write the result as YAML to this path (- for stdout)")
}

// apply copies every flag the user set into cfg.
func (f *solveFlags) apply(cmd *cobra.Command, cfg *multilat.Config) {
	fl := cmd.Flags()
	if fl.Changed("clusters") {
		cfg.NumClusters = f.clusters
	}
	if fl.Changed("threshold") {
		cfg.ClusteringThreshold = f.threshold
	}
	if fl.Changed("trials") {
		cfg.OptTrials = f.trials
	}
	if fl.Changed("iters") {
		cfg.ReclusterIters = f.iters
	}
	if fl.Changed("highlight") {
		cfg.HighlightRadius = f.highlight
	}
	if fl.Changed("method") {
		cfg.Method = multilat.Method(f.method)
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
}

func (f *solveFlags) renderMode() (render.Mode, error) {
	switch f.mode {
	case "points":
		return render.ModePoints, nil
	case "ambiguity":
		return render.ModeAmbiguity, nil
	}
	return 0, fmt.Errorf("unknown plot mode %q", f.mode)
}

// solve runs Locate on circles, writing plots and the result as requested,
// and prints a summary to w.
func solve(w io.Writer, name string, circles []geometry.Circle, cfg multilat.Config, f *solveFlags) (*multilat.Result, error) {
	mode, err := f.renderMode()
	if err != nil {
		return nil, err
	}
	sc, err := multilat.Resolved(circles, cfg)
	if err != nil {
		return nil, err
	}
	if f.plot || f.plotIterations {
		if err := os.MkdirAll(f.outDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if f.plot {
		path := render.InitFile(f.outDir)
		if err := render.Save(render.FromCircles(circles, sc.XLim, sc.YLim), path); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "Wrote %s\n", path)
	}

	opts := []multilat.Option{multilat.WithLogger(logger)}
	if f.plotIterations {
		opts = append(opts, multilat.WithIterationHook(func(it multilat.Iteration) {
			path := render.IterationFile(f.outDir, it.Index)
			if err := render.Save(render.FromIteration(it, sc.XLim, sc.YLim, sc.HighlightRadius), path); err != nil {
				logger.Warn("iteration plot failed", zap.Int("iteration", it.Index), zap.Error(err))
			}
		}))
	}

	res, err := multilat.Locate(circles, cfg, opts...)
	if err != nil {
		return nil, err
	}
	printSummary(w, name, res)

	if f.plot {
		path := render.ResultFile(f.outDir)
		if err := render.Save(render.FromResult(res, mode), path); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
	if f.resultPath != "" {
		if err := writeResult(w, f.resultPath, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func writeResult(w io.Writer, path string, res *multilat.Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if path == "-" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

func printSummary(w io.Writer, name string, res *multilat.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", cyan(fmt.Sprintf("=== %s ===", name)))
	fmt.Fprintf(w, "Circles: %d  Sources: %d  Best total loss: %.4g\n",
		len(res.Circles), res.NumClusters, res.BestTotalLoss)
	fmt.Fprintf(w, "%s\n", gray(fmt.Sprintf("threshold %.4g  highlight %.4g  x %v  y %v",
		res.ClusteringThreshold, res.HighlightRadius, res.XLim, res.YLim)))

	for _, c := range res.Candidates {
		status := green("●")
		switch {
		case !c.Solved:
			status = red("✗")
		case len(c.Ambiguity) > 1:
			status = yellow("◐")
		}
		fmt.Fprintf(w, "  %s source %d  loss %.4g  circles %d\n", status, c.Index, c.Loss, len(c.Circles))
		for _, ap := range c.Ambiguity {
			fmt.Fprintf(w, "      (%.3f, %.3f) r=%.3g\n", ap.Point.X, ap.Point.Y, ap.Radius)
		}
		for _, circle := range c.Circles {
			if circle.Label != "" {
				fmt.Fprintf(w, "      %s\n", gray(circle.Label))
			}
		}
	}
	fmt.Fprintln(w)
}
