// Command locatetest runs the solver on the built-in fixtures and prints the
// per-circle residuals of the located sources.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"multilat/internal/multilat"
	"multilat/internal/render"
)

func main() {
	name := flag.String("f", "", "Fixture name (empty runs all)")
	seed := flag.Int64("seed", 0, "Random seed")
	runs := flag.Int("n", 1, "Runs per fixture with consecutive seeds")
	method := flag.String("method", "", "Local optimizer: bfgs, lbfgs, cg or neldermead")
	plotDir := flag.String("plot", "", "Write the final plot of each run to this directory")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	names := multilat.FixtureNames()
	if *name != "" {
		names = []string{*name}
	}

	failed := false
	for _, n := range names {
		f, ok := multilat.LookupFixture(n)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown fixture %q\n", n)
			os.Exit(1)
		}

		for run := 0; run < *runs; run++ {
			cfg := multilat.Config{Seed: *seed + int64(run), Method: multilat.Method(*method)}
			start := time.Now()
			res, err := multilat.Locate(f.Circles, cfg)
			if err != nil {
				log.Printf("%s: %v", n, err)
				failed = true
				continue
			}

			fmt.Printf("\n=== %s (seed %d, %v) ===\n", n, cfg.Seed, time.Since(start).Round(time.Millisecond))
			fmt.Printf("  sources=%d  best=%.6f  losses=%v\n", res.NumClusters, res.BestTotalLoss, formatLosses(res.IterationLosses))
			for _, c := range res.Candidates {
				fmt.Printf("  [%d] point=(%.4f, %.4f) loss=%.6f solved=%v\n", c.Index, c.Point.X, c.Point.Y, c.Loss, c.Solved)
				if fix, err := multilat.LinearFix(c.Circles); err == nil {
					fmt.Printf("      linear fix=(%.4f, %.4f) loss=%.6f\n", fix.X, fix.Y, multilat.NewLoss(c.Circles).Value(fix.Slice()))
				}
				for _, circle := range c.Circles {
					fmt.Printf("      circle (%.2f, %.2f) r=%.2f residual=%.4f\n",
						circle.Center.X, circle.Center.Y, circle.Radius, circle.Residual(c.Point))
				}
			}

			if *plotDir != "" {
				if err := os.MkdirAll(*plotDir, 0755); err != nil {
					log.Fatalf("Failed to create %s: %v", *plotDir, err)
				}
				path := filepath.Join(*plotDir, fmt.Sprintf("%s-%d.png", n, cfg.Seed))
				if err := render.Save(render.FromResult(res, render.ModeAmbiguity), path); err != nil {
					log.Printf("Plot failed: %v", err)
				}
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func formatLosses(losses []float64) string {
	s := "["
	for i, l := range losses {
		if i > 0 {
			s += " "
		}
		if math.IsInf(l, 1) {
			s += "inf"
		} else {
			s += fmt.Sprintf("%.4f", l)
		}
	}
	return s + "]"
}
