// Package render draws circles and located sources to PNG files.
package render

import (
	"fmt"
	"path/filepath"

	"multilat/internal/multilat"
	"multilat/pkg/colorutil"
	"multilat/pkg/geometry"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Mode selects which locations are drawn for each candidate.
type Mode int

const (
	// ModePoints draws each candidate's solved point.
	ModePoints Mode = iota
	// ModeAmbiguity draws every resolved ambiguity location.
	ModeAmbiguity
)

const (
	// circleSegments is the number of segments used to approximate a circle.
	circleSegments = 96
	gridAlpha      = 160
)

// Size is the edge length of the square output image.
var Size = 6 * vg.Inch

// Scene is one picture: the circles colored by cluster plus the candidate
// locations.
type Scene struct {
	Title           string
	XLim, YLim      geometry.Limits
	Circles         []geometry.Circle
	Candidates      []multilat.Candidate
	HighlightRadius float64
	Mode            Mode
}

// FromResult builds the scene of a finished run.
func FromResult(res *multilat.Result, mode Mode) Scene {
	return Scene{
		Title:           "plotcircles",
		XLim:            res.XLim,
		YLim:            res.YLim,
		Circles:         res.Circles,
		Candidates:      res.Candidates,
		HighlightRadius: res.HighlightRadius,
		Mode:            mode,
	}
}

// FromCircles builds the scene of the input circles alone, drawn before
// any source is located.
func FromCircles(circles []geometry.Circle, xl, yl geometry.Limits) Scene {
	return Scene{
		Title:   "plotcircles init",
		XLim:    xl,
		YLim:    yl,
		Circles: circles,
	}
}

// FromIteration builds the scene of one solver iteration.
func FromIteration(it multilat.Iteration, xl, yl geometry.Limits, highlightRadius float64) Scene {
	return Scene{
		Title:           fmt.Sprintf("plotcircles iter %d (loss %.4g)", it.Index, it.TotalLoss),
		XLim:            xl,
		YLim:            yl,
		Circles:         it.Circles,
		Candidates:      it.Candidates,
		HighlightRadius: highlightRadius,
		Mode:            ModePoints,
	}
}

// ResultFile returns the path of the final plot in dir.
func ResultFile(dir string) string {
	return filepath.Join(dir, "plotcircles.png")
}

// InitFile returns the path of the circles-only plot in dir.
func InitFile(dir string) string {
	return filepath.Join(dir, "plotcircles init.png")
}

// IterationFile returns the path of the plot of iteration i in dir.
func IterationFile(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("plotcircles iter %d.png", i))
}

// Plot lays out the scene.
func (s Scene) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	xl, yl := equalAspect(s.XLim, s.YLim)
	p.X.Min, p.X.Max = xl.Min, xl.Max
	p.Y.Min, p.Y.Max = yl.Min, yl.Max

	grid := plotter.NewGrid()
	grid.Vertical.Color = colorutil.WithAlpha(colorutil.Grid, gridAlpha)
	grid.Horizontal.Color = colorutil.WithAlpha(colorutil.Grid, gridAlpha)
	p.Add(grid)

	legend := make(map[int]bool)
	for _, c := range s.Circles {
		line, err := circleLine(c.Center, c.Radius)
		if err != nil {
			return nil, fmt.Errorf("circle at %v: %w", c.Center, err)
		}
		line.LineStyle.Color = colorutil.ClusterColor(c.Cluster)
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)

		if !legend[c.Cluster] {
			legend[c.Cluster] = true
			p.Legend.Add(fmt.Sprintf("cluster %d", c.Cluster), line)
		}
	}

	var marks plotter.XYs
	for _, cand := range s.Candidates {
		for _, ap := range s.locations(cand) {
			line, err := circleLine(ap.Point, ap.Radius)
			if err != nil {
				return nil, fmt.Errorf("candidate %d: %w", cand.Index, err)
			}
			line.LineStyle.Color = colorutil.Highlight
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			marks = append(marks, plotter.XY{X: ap.Point.X, Y: ap.Point.Y})
		}
	}

	if len(marks) > 0 {
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("candidate markers: %w", err)
		}
		sc.GlyphStyle.Color = colorutil.Highlight
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("source", sc)
	}
	p.Legend.Top = true

	return p, nil
}

// locations returns what the scene mode draws for one candidate.
func (s Scene) locations(c multilat.Candidate) []multilat.AmbiguityPoint {
	if s.Mode == ModeAmbiguity && c.Ambiguity != nil {
		return c.Ambiguity
	}
	if !c.HasPoint {
		return nil
	}
	return []multilat.AmbiguityPoint{{Point: c.Point, Radius: s.HighlightRadius}}
}

// Save writes the scene to path as a square image.
func Save(s Scene, path string) error {
	p, err := s.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

func circleLine(center geometry.Point2D, radius float64) (*plotter.Line, error) {
	pts := geometry.GenerateCirclePoints(center.X, center.Y, radius, circleSegments)
	xys := make(plotter.XYs, len(pts)+1)
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	xys[len(pts)] = xys[0]
	return plotter.NewLine(xys)
}

// equalAspect widens the shorter axis so both spans match, keeping circles
// round on a square canvas.
func equalAspect(xl, yl geometry.Limits) (geometry.Limits, geometry.Limits) {
	dx, dy := xl.Span(), yl.Span()
	switch {
	case dx > dy:
		pad := (dx - dy) / 2
		yl = geometry.NewLimits(yl.Min-pad, yl.Max+pad)
	case dy > dx:
		pad := (dy - dx) / 2
		xl = geometry.NewLimits(xl.Min-pad, xl.Max+pad)
	}
	return xl, yl
}
