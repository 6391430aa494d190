package analysis

import (
	"math"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultBins is the histogram bin count.
	DefaultBins = 30
	// densityGridSize is the number of points the density curve is evaluated on.
	densityGridSize = 200
)

// Bin is one histogram bar over [Lo, Hi); the last bin also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo" yaml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi"`
	Count int     `json:"count" yaml:"count"`
}

// DensityPoint is one point of the kernel density estimate. Scaled is the
// density multiplied by n·binWidth so it overlays histogram counts.
type DensityPoint struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Scaled float64 `json:"scaled" yaml:"scaled"`
}

// DistributionSample is the histogram and density data of one numeric column.
type DistributionSample struct {
	Column    string         `json:"column" yaml:"column"`
	Values    []float64      `json:"values" yaml:"values"`
	Bins      []Bin          `json:"bins" yaml:"bins"`
	BinWidth  float64        `json:"bin_width" yaml:"bin_width"`
	Min       Float          `json:"min" yaml:"min"`
	Max       Float          `json:"max" yaml:"max"`
	Mean      Float          `json:"mean" yaml:"mean"`
	Median    Float          `json:"median" yaml:"median"`
	Std       Float          `json:"std" yaml:"std"`
	Bandwidth Float          `json:"bandwidth" yaml:"bandwidth"`
	Density   []DensityPoint `json:"density,omitempty" yaml:"density,omitempty"`
}

// MaxCount returns the tallest bar, for scaling charts.
func (d *DistributionSample) MaxCount() int {
	m := 0
	for _, b := range d.Bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// Distribute bins the non-missing values of a numeric column into equal-width
// bins spanning the observed range, and estimates a Gaussian kernel density.
// bins <= 0 means DefaultBins.
func Distribute(ds *dataset.Dataset, column string, bins int) (*DistributionSample, error) {
	c, err := ds.NumericColumn(column)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	vals := c.Present()
	d := &DistributionSample{
		Column: column, Values: vals,
		Min: NaN(), Max: NaN(), Mean: NaN(), Median: NaN(), Std: NaN(), Bandwidth: NaN(),
	}
	if len(vals) == 0 {
		return d, nil
	}
	sorted := sortedCopy(vals)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	d.Min, d.Max = Float(lo), Float(hi)
	if mean, err := stats.Mean(vals); err == nil {
		d.Mean = Float(mean)
	}
	if med, err := stats.Median(vals); err == nil {
		d.Median = Float(med)
	}
	if sd, err := stats.StandardDeviationSample(vals); err == nil && len(vals) > 1 {
		d.Std = Float(sd)
	}

	d.Bins, d.BinWidth = histogram(sorted, bins)
	if len(vals) < 2 || lo == hi || !d.Std.Valid() || d.Std == 0 {
		return d, nil
	}
	bw := float64(d.Std) * math.Pow(float64(len(vals)), -0.2)
	d.Bandwidth = Float(bw)
	d.Density = kdeCurve(vals, bw, lo, hi, d.BinWidth)
	return d, nil
}

// histogram follows numpy: edges span [min, max] (widened by 0.5 on each side
// when all values are equal) and the last bin is closed on the right.
func histogram(sorted []float64, bins int) ([]Bin, float64) {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		// the range exceeds float64; step with a width that does not
		width = hi/float64(bins) - lo/float64(bins)
		for i := range edges {
			edges[i] = lo + float64(i)*width
		}
	} else {
		floats.Span(edges, lo, hi)
	}
	edges[0], edges[bins] = lo, hi
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out, width
}

func kdeCurve(vals []float64, bw, lo, hi, binWidth float64) []DensityPoint {
	k := gaussianKernel{h: bw}
	grid := floats.Span(make([]float64, densityGridSize), lo, hi)
	grid[0], grid[len(grid)-1] = lo, hi
	n := float64(len(vals))
	out := make([]DensityPoint, len(grid))
	for i, x := range grid {
		y := k.density(vals, x)
		out[i] = DensityPoint{X: x, Y: y, Scaled: y * n * binWidth}
	}
	return out
}

type gaussianKernel struct {
	h float64
}

func (k gaussianKernel) shape(x float64) float64 {
	return 0.3989422804014327 * math.Exp(-x*x/2.0)
}

func (k gaussianKernel) density(xs []float64, x float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, xi := range xs {
		sum += k.shape((xi - x) / k.h)
	}
	return sum / (k.h * float64(len(xs)))
}
