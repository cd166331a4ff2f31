package trace

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// Default diagram size.
var (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Lanes from bottom to top.
var lanes = []string{"frame", "phase", "strobe", "line", "raw"}

const (
	laneFrame = iota
	lanePhase
	laneStrobe
	laneLine
	laneRaw

	laneHeight = 0.6
)

// Plot renders samples as a timing diagram.
type Plot struct {
	Title   string
	Samples []sim.Signals
	Width   vg.Length
	Height  vg.Length
}

// NewPlot creates a Plot.
func NewPlot(title string, samples []sim.Signals) *Plot {
	return &Plot{Title: title, Samples: samples, Width: DefaultWidth, Height: DefaultHeight}
}

func level(lane int, v bool) float64 {
	if v {
		return float64(lane) + laneHeight
	}
	return float64(lane)
}

// Build assembles the gonum plot.
func (p *Plot) Build() (*plot.Plot, error) {
	if len(p.Samples) == 0 {
		return nil, fmt.Errorf("no samples")
	}
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = "cycle"

	traces := make([]plotter.XYs, laneRaw+1)
	var ready, errs plotter.XYs
	for _, s := range p.Samples {
		x := float64(s.Cycle)
		traces[laneRaw] = append(traces[laneRaw], plotter.XY{X: x, Y: level(laneRaw, s.Raw)})
		traces[laneLine] = append(traces[laneLine], plotter.XY{X: x, Y: level(laneLine, s.Line)})
		traces[laneStrobe] = append(traces[laneStrobe], plotter.XY{X: x, Y: level(laneStrobe, s.Strobe)})
		traces[lanePhase] = append(traces[lanePhase], plotter.XY{
			X: x,
			Y: lanePhase + laneHeight*float64(s.State.Phase&3)/float64(rx.PhaseStop),
		})
		switch {
		case s.Result.Ready:
			ready = append(ready, plotter.XY{X: x, Y: laneFrame + laneHeight/2})
		case s.Result.FramingError:
			errs = append(errs, plotter.XY{X: x, Y: laneFrame + laneHeight/2})
		}
	}

	colors := []color.Color{
		laneRaw:    color.RGBA{R: 32, G: 32, B: 160, A: 255},
		laneLine:   color.RGBA{R: 32, G: 128, B: 32, A: 255},
		laneStrobe: color.RGBA{R: 128, G: 128, B: 128, A: 255},
		lanePhase:  color.RGBA{R: 160, G: 96, B: 0, A: 255},
	}
	for lane := lanePhase; lane <= laneRaw; lane++ {
		line, err := plotter.NewLine(traces[lane])
		if err != nil {
			return nil, err
		}
		line.StepStyle = plotter.PostStep
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = colors[lane]
		pl.Add(line)
	}

	marks := []struct {
		name  string
		xys   plotter.XYs
		color color.Color
		shape draw.GlyphDrawer
	}{
		{"ready", ready, color.RGBA{G: 160, A: 255}, draw.CircleGlyph{}},
		{"framing error", errs, color.RGBA{R: 200, A: 255}, draw.CrossGlyph{}},
	}
	for _, m := range marks {
		if len(m.xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(m.xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: m.color, Radius: vg.Points(4), Shape: m.shape}
		pl.Add(sc)
		pl.Legend.Add(m.name, sc)
	}

	pl.NominalY(lanes...)
	return pl, nil
}

// WriteTo renders the diagram in the given format (svg, png, pdf, ...).
func (p *Plot) WriteTo(w io.Writer, format string) error {
	pl, err := p.Build()
	if err != nil {
		return err
	}
	width, height := p.size()
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func (p *Plot) size() (vg.Length, vg.Length) {
	w, h := p.Width, p.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return w, h
}

// Save renders the diagram to a file, the format follows the extension.
func (p *Plot) Save(path string) (err error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("no format in file name %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		switch e := f.Close(); {
		case e == nil:
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}()
	return p.WriteTo(f, format)
}
