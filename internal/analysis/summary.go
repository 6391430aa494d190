package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the dataset-level report: shape, columns, missing counts and
// descriptive statistics for numeric columns.
type Summary struct {
	Shape    [2]int              `json:"shape" yaml:"shape"`
	Columns  []string            `json:"columns" yaml:"columns"`
	Missing  map[string]int      `json:"missing_values" yaml:"missing_values"`
	Stats    map[string]Describe `json:"summary_statistics" yaml:"summary_statistics"`
	Profiles []ColumnProfile     `json:"profiles" yaml:"profiles"`
}

// Describe holds descriptive statistics of one numeric column. Std is the
// sample standard deviation; quartiles use linear interpolation.
type Describe struct {
	Count  int   `json:"count" yaml:"count"`
	Mean   Float `json:"mean" yaml:"mean"`
	Std    Float `json:"std" yaml:"std"`
	Min    Float `json:"min" yaml:"min"`
	Q1     Float `json:"25%" yaml:"25%"`
	Median Float `json:"50%" yaml:"50%"`
	Q3     Float `json:"75%" yaml:"75%"`
	Max    Float `json:"max" yaml:"max"`
}

// ColumnProfile captures the inferred kind and light statistics of any column.
type ColumnProfile struct {
	Name         string          `json:"name" yaml:"name"`
	Kind         dataset.Kind    `json:"kind" yaml:"kind"`
	NonNull      int             `json:"non_null" yaml:"non_null"`
	Missing      int             `json:"missing" yaml:"missing"`
	Unique       int             `json:"unique" yaml:"unique"`
	TopValues    []CategoryCount `json:"top_values,omitempty" yaml:"top_values,omitempty"`
	ExampleTexts []string        `json:"example_texts,omitempty" yaml:"example_texts,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

const (
	maxTopValues    = 8
	maxExampleTexts = 3
)

// Summarize computes the Summary of ds. Missing counts cover every column;
// statistics cover numeric columns only.
func Summarize(ds *dataset.Dataset) *Summary {
	s := &Summary{
		Shape:   ds.Shape(),
		Columns: ds.ColumnNames(),
		Missing: make(map[string]int, ds.Cols()),
		Stats:   make(map[string]Describe),
	}
	for _, c := range ds.Columns {
		miss := c.MissingCount()
		s.Missing[c.Name] = miss
		if c.IsNumeric() {
			s.Stats[c.Name] = DescribeValues(c.Present())
		}
		s.Profiles = append(s.Profiles, profile(c, miss))
	}
	return s
}

// DescribeValues computes descriptive statistics. Undefined entries are NaN:
// everything but Count for empty input, and Std for fewer than two values.
func DescribeValues(vals []float64) Describe {
	d := Describe{Count: len(vals), Mean: NaN(), Std: NaN(), Min: NaN(), Q1: NaN(), Median: NaN(), Q3: NaN(), Max: NaN()}
	if len(vals) == 0 {
		return d
	}
	sorted := sortedCopy(vals)
	d.Mean = Float(stat.Mean(vals, nil))
	if len(vals) > 1 {
		d.Std = Float(stat.StdDev(vals, nil))
	}
	d.Min = Float(floats.Min(vals))
	d.Max = Float(floats.Max(vals))
	d.Q1 = Float(quantile(sorted, 0.25))
	d.Median = Float(quantile(sorted, 0.5))
	d.Q3 = Float(quantile(sorted, 0.75))
	return d
}

func profile(c *dataset.Column, miss int) ColumnProfile {
	p := ColumnProfile{Name: c.Name, Kind: c.Kind, NonNull: len(c.Raw) - miss, Missing: miss}
	counts := make(map[string]int)
	for i, raw := range c.Raw {
		if c.Missing[i] {
			continue
		}
		v := strings.TrimSpace(raw)
		counts[v]++
		if c.Kind == dataset.KindText && len(p.ExampleTexts) < maxExampleTexts {
			p.ExampleTexts = append(p.ExampleTexts, v)
		}
	}
	p.Unique = len(counts)
	if c.Kind != dataset.KindCategorical {
		return p
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > maxTopValues {
		tops = tops[:maxTopValues]
	}
	p.TopValues = tops
	return p
}
