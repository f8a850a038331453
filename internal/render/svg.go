// Package render draws frames as static SVG scatter plots.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/roach88/pdscatter/internal/projection"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

// OverlaySeries prefixes the series name of highlighted-country points.
const OverlaySeries = "Selected"

// ErrEmptyFrame is returned for a frame with no points to draw.
var ErrEmptyFrame = errors.New("frame has no points")

// Plot builds the scatter plot of f: one series per region and sex, plus
// the highlighted country, with marker size taken from prevalence.
func Plot(f *projection.Frame) (*gg.Plot, error) {
	n := f.PointCount() + f.OverlayCount()
	if n == 0 {
		return nil, ErrEmptyFrame
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	sizes := make([]float64, 0, n)
	series := make([]string, 0, n)
	locations := make([]string, 0, n)

	add := func(name string, pts []projection.Point) {
		for _, p := range pts {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			sizes = append(sizes, p.Size)
			series = append(series, name)
			locations = append(locations, p.Tooltip.Location)
		}
	}
	for _, g := range f.Groups {
		add(g.Key.Region+" / "+g.Key.Sex, g.Points)
	}
	for _, g := range f.Overlay {
		add(OverlaySeries+" / "+g.Key.Sex, g.Points)
	}

	tab := new(table.Builder).
		Add("x", xs).
		Add("y", ys).
		Add("size", sizes).
		Add("series", series).
		Add("location", locations).
		Done()

	plot := gg.NewPlot(tab)
	plot.SetScale("x", gg.NewLinearScaler().SetMin(f.XRange.Start).SetMax(f.XRange.End))
	plot.SetScale("y", gg.NewLinearScaler().SetMin(f.YRange.Start).SetMax(f.YRange.End))
	plot.Add(gg.Title(f.Title))
	plot.Add(gg.AxisLabel("x", f.XLabel))
	plot.Add(gg.AxisLabel("y", f.YLabel))
	plot.Add(gg.LayerPoints{
		X:     "x",
		Y:     "y",
		Color: "series",
		Size:  "size",
	})
	plot.Add(gg.LayerTooltips{X: "x", Y: "y", Label: "location"})
	return plot, nil
}

// WriteSVG writes f as an SVG document of the given size.
func WriteSVG(w io.Writer, f *projection.Frame, width, height int) error {
	plot, err := Plot(f)
	if err != nil {
		return err
	}
	if err := plot.WriteSVG(w, width, height); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// SVGRenderer writes every rendered frame to its own file in Dir, named by
// render order and year. Frames without points are skipped.
type SVGRenderer struct {
	Dir           string
	Width, Height int

	mu sync.Mutex
	n  int
}

// NewSVGRenderer returns a renderer writing into dir at the default size.
func NewSVGRenderer(dir string) *SVGRenderer {
	return &SVGRenderer{Dir: dir, Width: DefaultWidth, Height: DefaultHeight}
}

// Render implements animation.Renderer.
func (r *SVGRenderer) Render(ctx context.Context, f *projection.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.n++
	name := filepath.Join(r.Dir, fmt.Sprintf("frame-%04d-%d.svg", r.n, f.Selection.Year))
	r.mu.Unlock()

	plot, err := Plot(f)
	if errors.Is(err, ErrEmptyFrame) {
		return nil
	}
	if err != nil {
		return err
	}

	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := plot.WriteSVG(out, r.Width, r.Height); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return out.Close()
}

// Count returns the number of frames rendered so far.
func (r *SVGRenderer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
