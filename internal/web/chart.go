package web

import (
	"bytes"
	"fmt"
	"html/template"
	"image/color"
	"math"
	"strings"

	"github.com/KaramelBytes/edascope/internal/analysis"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 6.4 * vg.Inch
	chartHeight = 2.8 * vg.Inch
)

var (
	barColor     = color.RGBA{R: 0x7a, G: 0xa6, B: 0xd6, A: 0xff}
	densityColor = color.RGBA{R: 0xb4, G: 0x04, B: 0x26, A: 0xff}
)

type heatCell struct {
	Text  string
	Color template.CSS
}

type heatRow struct {
	Name  string
	Cells []heatCell
}

type heatmap struct {
	Columns []string
	Rows    []heatRow
}

// coolwarm endpoints and midpoint, matching the usual diverging colormap.
var (
	coldRGB = [3]float64{59, 76, 192}
	midRGB  = [3]float64{221, 221, 221}
	warmRGB = [3]float64{180, 4, 38}
)

func heatColor(r analysis.Float) template.CSS {
	if !r.Valid() {
		return "#f4f4f4"
	}
	v := float64(r)
	from, to, t := midRGB, warmRGB, v
	if v < 0 {
		from, to, t = midRGB, coldRGB, -v
	}
	var c [3]int
	for i := range c {
		c[i] = int(from[i] + (to[i]-from[i])*t + 0.5)
	}
	return template.CSS(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

func buildHeatmap(m *analysis.CorrelationMatrix) *heatmap {
	if m.Empty() {
		return nil
	}
	h := &heatmap{Columns: m.Columns}
	for i, name := range m.Columns {
		row := heatRow{Name: name}
		for _, v := range m.Values[i] {
			text := v.String()
			if v.Valid() {
				text = fmt.Sprintf("%.2f", float64(v))
			}
			row.Cells = append(row.Cells, heatCell{Text: text, Color: heatColor(v)})
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}

type histogramChart struct {
	SVG template.HTML
}

// buildHistogram plots the bins and the count-scaled density curve with
// gonum/plot and returns the inline SVG. It returns nil when there is nothing
// to draw or the value range does not fit in a float64.
func buildHistogram(d *analysis.DistributionSample) *histogramChart {
	if d == nil || len(d.Bins) == 0 {
		return nil
	}
	lo, hi := d.Bins[0].Lo, d.Bins[len(d.Bins)-1].Hi
	if math.IsInf(hi-lo, 0) || math.IsNaN(hi-lo) {
		return nil
	}

	p := plot.New()
	p.X.Label.Text = d.Column
	p.Y.Label.Text = "count"
	p.Add(plotter.NewGrid())

	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(d.Bins)),
		Width:     d.BinWidth,
		FillColor: barColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = color.White
	for i, b := range d.Bins {
		h.Bins[i] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: float64(b.Count)}
	}
	p.Add(h)

	if len(d.Density) > 0 {
		pts := make(plotter.XYs, len(d.Density))
		for i, pt := range d.Density {
			pts[i].X, pts[i].Y = pt.X, pt.Scaled
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			zap.L().Warn("density curve skipped", zap.String("column", d.Column), zap.Error(err))
		} else {
			line.LineStyle.Color = densityColor
			line.LineStyle.Width = vg.Points(2)
			p.Add(line)
		}
	}

	wt, err := p.WriterTo(chartWidth, chartHeight, "svg")
	if err != nil {
		zap.L().Error("render histogram", zap.String("column", d.Column), zap.Error(err))
		return nil
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		zap.L().Error("render histogram", zap.String("column", d.Column), zap.Error(err))
		return nil
	}
	out := buf.String()
	// drop the XML prolog so the document can sit inline in HTML
	if i := strings.Index(out, "<svg"); i > 0 {
		out = out[i:]
	}
	return &histogramChart{SVG: template.HTML(out)}
}
