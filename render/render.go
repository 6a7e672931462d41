// Package render draws dashboard charts as SVG.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"diet-dashboard/models"
)

// MimeType is the content type of every rendered chart.
const MimeType = "image/svg+xml"

// Canvas size of a rendered chart.
const (
	width  = 8 * vg.Inch
	height = 4.5 * vg.Inch
)

// Labels on crowded category axes are tilted once there are more than this.
const tiltAfter = 6

var (
	ErrUnknownKind = errors.New("render: unknown chart kind")

	seriesColor = color.RGBA{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff}
)

// Filename is the export file name of c.
func Filename(c models.Chart) string { return c.Name + ".svg" }

// SVG writes c to w. Empty charts are drawn as a titled blank canvas.
func SVG(w io.Writer, c models.Chart) error {
	if c.Kind == models.ChartPie && !c.Empty() {
		return pie(w, c)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XAxis
	p.Y.Label.Text = c.YAxis

	if c.Empty() {
		p.Title.Text = c.Title + " (" + models.NoData + ")"
		p.HideAxes()
		return write(w, p, c.Name)
	}

	var err error
	switch c.Kind {
	case models.ChartLine:
		err = line(p, c)
	case models.ChartBar:
		err = bars(p, c)
	case models.ChartBox:
		err = boxes(p, c)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	if err != nil {
		return fmt.Errorf("render: %s: %w", c.Name, err)
	}
	return write(w, p, c.Name)
}

func line(p *plot.Plot, c models.Chart) error {
	pts := make(plotter.XYs, len(c.Points))
	labels := make([]string, len(c.Points))
	for i, pt := range c.Points {
		pts[i] = plotter.XY{X: float64(i), Y: pt.Value}
		labels[i] = pt.Label
	}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.Width = vg.Points(2)
	l.Color = seriesColor

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = seriesColor
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(plotter.NewGrid(), l, s)
	p.NominalX(labels...)
	tilt(p, len(labels))
	return nil
}

func bars(p *plot.Plot, c models.Chart) error {
	values := make(plotter.Values, len(c.Points))
	labels := make([]string, len(c.Points))
	for i, pt := range c.Points {
		values[i] = pt.Value
		labels[i] = pt.Label
	}

	b, err := plotter.NewBarChart(values, vg.Points(22))
	if err != nil {
		return err
	}
	b.Color = seriesColor
	b.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), b)
	p.NominalX(labels...)
	p.Y.Min = 0
	tilt(p, len(labels))
	return nil
}

func boxes(p *plot.Plot, c models.Chart) error {
	labels := make([]string, len(c.Groups))
	p.Add(plotter.NewGrid())
	for i, g := range c.Groups {
		b, err := plotter.NewBoxPlot(vg.Points(28), float64(i), plotter.Values(g.Values))
		if err != nil {
			return fmt.Errorf("region %s: %w", g.Region, err)
		}
		b.FillColor = seriesColor
		p.Add(b)
		labels[i] = g.Region
	}
	p.NominalX(labels...)
	tilt(p, len(labels))
	return nil
}

func tilt(p *plot.Plot, n int) {
	if n <= tiltAfter {
		return
	}
	p.X.Tick.Label.Rotation = math.Pi / 5
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func write(w io.Writer, p *plot.Plot, name string) error {
	wt, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: %s: write: %w", name, err)
	}
	return nil
}

func pie(w io.Writer, c models.Chart) error {
	values := make([]chart.Value, 0, len(c.Points))
	for _, pt := range c.Points {
		values = append(values, chart.Value{Label: pt.Label, Value: pt.Value})
	}

	pc := chart.PieChart{
		Title:  c.Title,
		Width:  int(width.Points()),
		Height: int(height.Points()),
		Values: values,
	}
	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render: %s: %w", c.Name, err)
	}
	return nil
}
