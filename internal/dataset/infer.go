package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultNAValues mirrors the markers pandas treats as missing by default.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// Options controls schema inference.
type Options struct {
	// DecimalSeparator for numeric cells. If 0, auto-detect per value.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing; 0 means none (or auto when
	// DecimalSeparator is also auto).
	ThousandsSeparator rune
	// NAValues are cell texts (after trimming) treated as missing. Nil means DefaultNAValues.
	NAValues []string
}

// DefaultOptions returns strict dot-decimal parsing with the pandas NA markers.
func DefaultOptions() Options {
	return Options{DecimalSeparator: '.'}
}

func (o Options) naSet() map[string]struct{} {
	vals := o.NAValues
	if vals == nil {
		vals = DefaultNAValues
	}
	set := make(map[string]struct{}, len(vals)+1)
	set[""] = struct{}{}
	for _, v := range vals {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}

const (
	maxCategoryLen    = 64
	maxCategoryValues = 10000
)

// inferColumn marks missing cells and decides the column kind. A column is
// numeric only when every non-missing cell parses as a finite number, so a
// column with rows but no values is numeric and all NaN.
func inferColumn(c *Column, na map[string]struct{}, opt Options) {
	n := len(c.Raw)
	nums := make([]float64, n)
	var nonNull, numCnt, dtCnt int
	uniq := make(map[string]struct{})
	longText := false
	for i, raw := range c.Raw {
		v := strings.TrimSpace(raw)
		if _, ok := na[v]; ok {
			c.Missing[i] = true
			nums[i] = nan()
			continue
		}
		nonNull++
		if len(v) > maxCategoryLen {
			longText = true
		} else if len(uniq) <= maxCategoryValues {
			uniq[v] = struct{}{}
		}
		if x, ok := ParseNumeric(v, opt); ok {
			nums[i] = x
			numCnt++
			continue
		}
		nums[i] = nan()
		if _, ok := parseTimeMaybe(v); ok {
			dtCnt++
		}
	}
	switch {
	case n == 0:
		c.Kind = KindEmpty
	case numCnt == nonNull:
		c.Kind = KindNumeric
		c.Nums = nums
	case dtCnt == nonNull:
		c.Kind = KindDatetime
	case !longText && len(uniq) <= maxCategoryValues && len(uniq) <= max(1, nonNull/2):
		c.Kind = KindCategorical
	default:
		c.Kind = KindText
	}
}

// ParseNumeric parses a cell as a finite number honoring the locale options.
// A trailing percent sign is dropped without rescaling.
func ParseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.HasSuffix(raw, "%") {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	}
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	auto := dec == 0
	if auto {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	} else if auto {
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
