package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds a symmetric Pearson correlation matrix across numeric
// columns. Values[i][j] is NaN when the coefficient is undefined.
type CorrelationMatrix struct {
	Columns []string  `json:"columns" yaml:"columns"`
	Values  [][]Float `json:"values" yaml:"values"`
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
	R Float  `json:"r" yaml:"r"`
}

// Empty reports whether there is nothing to render (fewer than two numeric columns).
func (m *CorrelationMatrix) Empty() bool { return m == nil || len(m.Columns) < 2 }

// TopPairs lists up to n off-diagonal pairs by descending |r|, skipping undefined ones.
func (m *CorrelationMatrix) TopPairs(n int) []PairCorr {
	if m.Empty() {
		return nil
	}
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if !m.Values[i][j].Valid() {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(float64(pairs[i].R)), math.Abs(float64(pairs[j].R))
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// Correlate computes Pearson correlations between numeric columns using
// pairwise-complete observations: each pair uses the rows where both values are
// present. With fewer than two numeric columns the matrix is empty.
func Correlate(ds *dataset.Dataset) *CorrelationMatrix {
	cols := ds.NumericColumns()
	if len(cols) < 2 {
		return &CorrelationMatrix{}
	}
	n := len(cols)
	m := &CorrelationMatrix{Columns: make([]string, n), Values: make([][]Float, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]Float, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = selfCorrelation(cols[a].Present())
		for b := a + 1; b < n; b++ {
			r := pairwise(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func selfCorrelation(vals []float64) Float {
	if len(vals) < 2 || constant(vals) {
		return NaN()
	}
	return 1
}

func pairwise(x, y *dataset.Column) Float {
	xs := make([]float64, 0, len(x.Nums))
	ys := make([]float64, 0, len(y.Nums))
	for i := range x.Nums {
		if x.Missing[i] || y.Missing[i] {
			continue
		}
		xs = append(xs, x.Nums[i])
		ys = append(ys, y.Nums[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Float(r)
}
