package analysis

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Float is a statistic that may be undefined. Undefined values are NaN in
// memory and encode as null in JSON and YAML.
type Float float64

// NaN returns an undefined statistic.
func NaN() Float { return Float(math.NaN()) }

// Valid reports whether the value is a finite number.
func (f Float) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (f Float) MarshalYAML() (any, error) {
	if !f.Valid() {
		return nil, nil
	}
	return float64(f), nil
}

// String renders the value compactly; undefined values render as "-".
func (f Float) String() string {
	if !f.Valid() {
		return "-"
	}
	return strconv.FormatFloat(float64(f), 'g', 4, 64)
}

// sortedCopy returns an ascending copy of vals.
func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// quantile uses linear interpolation between closest ranks over sorted input,
// the numpy/pandas default. It is NaN for empty input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// constant reports whether every value is identical (or there are none).
func constant(vals []float64) bool {
	for _, v := range vals[min(1, len(vals)):] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
