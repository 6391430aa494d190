package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/edascope/internal/dataset"
)

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	s := r.Summary
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if s != nil {
		b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n", s.Shape[0], s.Shape[1]))
		b.WriteString(fmt.Sprintf("Rows: %d\n", s.Shape[0]))
		b.WriteString(fmt.Sprintf("Columns: %d\n", s.Shape[1]))
	}
	b.WriteString("\n")

	if s != nil {
		writeSchema(&b, s)
		writeDescribe(&b, s)
	}

	if r.Correlation != nil && !r.Correlation.Empty() {
		b.WriteString("\n[CORRELATIONS]\n")
		writeMatrix(&b, r.Correlation)
		if len(r.TopPairs) > 0 {
			b.WriteString("\nStrongest pairs:\n")
			for _, p := range r.TopPairs {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, float64(p.R)))
			}
		}
	}

	if o := r.Outliers; o != nil {
		b.WriteString(fmt.Sprintf("\n[OUTLIERS: %s]\n", safeName(o.Column)))
		b.WriteString(fmt.Sprintf("Q1 %s, Q3 %s, IQR %s\n", o.Bounds.Q1, o.Bounds.Q3, o.Bounds.IQR))
		b.WriteString(fmt.Sprintf("Bounds: lower %s, upper %s (k=%.4g)\n", o.Bounds.Lower, o.Bounds.Upper, o.Multiplier))
		b.WriteString(fmt.Sprintf("Number of outliers: %d\n", o.Count))
		if len(r.OutlierRows) > 0 && s != nil {
			lim := r.maxOutlierRows
			if lim <= 0 {
				lim = 20
			}
			rows := r.OutlierRows
			if len(rows) > lim {
				rows = rows[:lim]
			}
			b.WriteString("\n")
			writeTable(&b, append([]string{"row"}, s.Columns...), prefixRows(rows, o.Rows))
			if len(r.OutlierRows) > lim {
				b.WriteString(fmt.Sprintf("(%d more rows not shown)\n", len(r.OutlierRows)-lim))
			}
		}
	}

	if d := r.Distribution; d != nil {
		b.WriteString(fmt.Sprintf("\n[DISTRIBUTION: %s]\n", safeName(d.Column)))
		b.WriteString(fmt.Sprintf("n=%d, bins=%d, width %.4g; mean %s, median %s, std %s\n",
			len(d.Values), len(d.Bins), d.BinWidth, d.Mean, d.Median, d.Std))
		if len(d.Density) > 0 {
			b.WriteString(fmt.Sprintf("Density: gaussian KDE, bandwidth %s\n", d.Bandwidth))
		}
		peak := d.MaxCount()
		for _, bin := range d.Bins {
			bar := ""
			if peak > 0 {
				bar = strings.Repeat("#", bin.Count*40/peak)
			}
			b.WriteString(fmt.Sprintf("%12.4g .. %-12.4g %6d %s\n", bin.Lo, bin.Hi, bin.Count, bar))
		}
	}

	if len(r.Head) > 0 && s != nil {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeTable(&b, s.Columns, r.Head)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeSchema(b *strings.Builder, s *Summary) {
	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Profiles {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d, %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, c.Missing, missPct))
		switch c.Kind {
		case dataset.KindCategorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case dataset.KindText:
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(truncate(ex, 80)))
				}
			}
		}
		b.WriteString("\n")
	}
}

func writeDescribe(b *strings.Builder, s *Summary) {
	if len(s.Stats) == 0 {
		return
	}
	b.WriteString("\n[SUMMARY STATISTICS]\n")
	header := []string{"stat"}
	var cols []string
	for _, name := range s.Columns {
		if _, ok := s.Stats[name]; ok {
			cols = append(cols, name)
			header = append(header, name)
		}
	}
	row := func(label string, get func(Describe) string) []string {
		out := []string{label}
		for _, c := range cols {
			out = append(out, get(s.Stats[c]))
		}
		return out
	}
	rows := [][]string{
		row("count", func(d Describe) string { return fmt.Sprint(d.Count) }),
		row("mean", func(d Describe) string { return d.Mean.String() }),
		row("std", func(d Describe) string { return d.Std.String() }),
		row("min", func(d Describe) string { return d.Min.String() }),
		row("25%", func(d Describe) string { return d.Q1.String() }),
		row("50%", func(d Describe) string { return d.Median.String() }),
		row("75%", func(d Describe) string { return d.Q3.String() }),
		row("max", func(d Describe) string { return d.Max.String() }),
	}
	writeTable(b, header, rows)
}

func writeMatrix(b *strings.Builder, m *CorrelationMatrix) {
	header := append([]string{"column"}, m.Columns...)
	rows := make([][]string, len(m.Columns))
	for i, name := range m.Columns {
		row := []string{name}
		for _, v := range m.Values[i] {
			if v.Valid() {
				row = append(row, fmt.Sprintf("%.3f", float64(v)))
			} else {
				row = append(row, v.String())
			}
		}
		rows[i] = row
	}
	writeTable(b, header, rows)
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			val = truncate(val, 80)
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func prefixRows(rows [][]string, idx []int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{fmt.Sprint(idx[i])}, row...)
	}
	return out
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
