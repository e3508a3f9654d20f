// Package chart renders the exploratory 2x2 chart of the demand history.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/your-org/acai-demand-study/internal/explore"
	"github.com/your-org/acai-demand-study/internal/synth"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no observations to plot")

const histogramBins = 15

// Options controls the image size.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultOptions returns a 12x10 inch image at 300 DPI.
func DefaultOptions() Options {
	return Options{Width: 12 * vg.Inch, Height: 10 * vg.Inch, DPI: 300}
}

var (
	lineColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	histColor    = color.RGBA{R: 31, G: 119, B: 180, A: 180}
	scatterColor = color.RGBA{R: 31, G: 119, B: 180, A: 180}
)

// Render draws the time series, histogram, scatter and boxplot panels and
// writes the composite as PNG to w.
func Render(w io.Writer, ds synth.Dataset, opts Options) error {
	if len(ds) == 0 {
		return ErrNoData
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions().DPI
	}

	panels := []func(synth.Dataset) (*plot.Plot, error){
		timeSeries, histogram, scatter, boxplot,
	}
	plots := make([][]*plot.Plot, 2)
	for i, build := range panels {
		p, err := build(ds)
		if err != nil {
			return err
		}
		row := i / 2
		plots[row] = append(plots[row], p)
	}

	img := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFile renders the chart into path, replacing any existing file.
func SaveFile(path string, ds synth.Dataset, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Render(f, ds, opts)
}

func timeSeries(ds synth.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Demanda Diária de Açaí"
	p.Y.Label.Text = "Quantidade Vendida"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	pts := make(plotter.XYs, len(ds))
	for i, o := range ds {
		pts[i].X = float64(o.Date.Unix())
		pts[i].Y = o.Demand
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("time series: %w", err)
	}
	line.LineStyle.Color = lineColor
	p.Add(line, plotter.NewGrid())
	return p, nil
}

func histogram(ds synth.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribuição da Demanda"
	p.X.Label.Text = "Quantidade"
	p.Y.Label.Text = "Frequência"

	h, err := plotter.NewHist(plotter.Values(ds.Demand()), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = histColor
	h.LineStyle.Color = color.Black
	p.Add(h)
	return p, nil
}

func scatter(ds synth.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Relação: Demanda vs Temperatura"
	p.X.Label.Text = "Temperatura (°C)"
	p.Y.Label.Text = "Demanda"

	pts := make(plotter.XYs, len(ds))
	for i, o := range ds {
		pts[i].X = o.Temperature
		pts[i].Y = o.Demand
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Color = scatterColor
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s, plotter.NewGrid())
	return p, nil
}

func boxplot(ds synth.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Demanda por Tipo de Dia"
	p.Y.Label.Text = "Demanda"

	weekday, weekend := explore.SplitByWeekend(ds)
	groups := []plotter.Values{weekday, weekend}
	for i, values := range groups {
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), values)
		if err != nil {
			return nil, fmt.Errorf("boxplot: %w", err)
		}
		p.Add(box)
	}
	p.NominalX("Dia Útil", "Fim de Semana")
	return p, nil
}
