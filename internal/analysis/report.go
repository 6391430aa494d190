package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options controls which sections Analyze produces.
type Options struct {
	// Column selects the numeric column for the outlier and distribution sections.
	Column string
	// Bins for the histogram; 0 means DefaultBins.
	Bins int
	// IQRMultiplier scales the outlier fences; 0 means 1.5.
	IQRMultiplier float64
	// SampleRows determines how many head rows to include in the report.
	SampleRows int
	// TopCorrelations limits the strongest pairs listed; 0 means 10.
	TopCorrelations int
	// MaxOutlierRows limits outlier rows rendered in Markdown; 0 means 20.
	MaxOutlierRows int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		Bins:            DefaultBins,
		IQRMultiplier:   IQRMultiplier,
		SampleRows:      5,
		TopCorrelations: 10,
		MaxOutlierRows:  20,
	}
}

// Report gathers every section computed for one dataset. Sections that could
// not be computed are nil and explained in Warnings.
type Report struct {
	Name         string              `json:"name" yaml:"name"`
	DatasetID    string              `json:"dataset_id" yaml:"dataset_id"`
	Format       string              `json:"format" yaml:"format"`
	Summary      *Summary            `json:"summary" yaml:"summary"`
	Correlation  *CorrelationMatrix  `json:"correlation" yaml:"correlation"`
	TopPairs     []PairCorr          `json:"top_correlations,omitempty" yaml:"top_correlations,omitempty"`
	Head         [][]string          `json:"head,omitempty" yaml:"head,omitempty"`
	Column       string              `json:"selected_column,omitempty" yaml:"selected_column,omitempty"`
	Outliers     *OutlierResult      `json:"outliers,omitempty" yaml:"outliers,omitempty"`
	OutlierRows  [][]string          `json:"outlier_rows,omitempty" yaml:"outlier_rows,omitempty"`
	Distribution *DistributionSample `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Warnings     []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	maxOutlierRows int
}

// Analyze runs the summary and correlation sections unconditionally and, when
// opt.Column is set, the outlier and distribution sections. A failing section
// is recorded as a warning and never affects the others.
func Analyze(ds *dataset.Dataset, opt Options) *Report {
	r := &Report{
		Name:           ds.Name,
		DatasetID:      ds.ID,
		Format:         ds.Format,
		Column:         opt.Column,
		maxOutlierRows: opt.MaxOutlierRows,
	}
	r.Warnings = append(r.Warnings, ds.Warnings...)
	r.Summary = Summarize(ds)
	r.Correlation = Correlate(ds)
	top := opt.TopCorrelations
	if top <= 0 {
		top = 10
	}
	r.TopPairs = r.Correlation.TopPairs(top)
	if opt.SampleRows > 0 {
		r.Head = ds.Head(opt.SampleRows)
	}

	if len(ds.NumericColumns()) == 0 {
		r.warn(&EmptyNumericColumnsError{Dataset: ds.Name})
		return r
	}
	if opt.Column == "" {
		return r
	}
	out, err := DetectOutliersK(ds, opt.Column, opt.IQRMultiplier)
	if err != nil {
		r.warn(err)
	} else {
		r.Outliers = out
		r.OutlierRows = out.Subset(ds)
	}
	dist, err := Distribute(ds, opt.Column, opt.Bins)
	if err != nil {
		r.warn(err)
	} else {
		r.Distribution = dist
	}
	return r
}

// warn records err once; the same selection error from both on-demand
// sections is reported a single time.
func (r *Report) warn(err error) {
	msg := err.Error()
	for _, w := range r.Warnings {
		if w == msg {
			return
		}
	}
	var cnf *dataset.ColumnNotFoundError
	var nne *dataset.NonNumericColumnError
	if errors.As(err, &cnf) || errors.As(err, &nne) {
		zap.L().Warn("column selection skipped", zap.String("dataset", r.Name), zap.Error(err))
	}
	r.Warnings = append(r.Warnings, msg)
}

// Format is an output encoding for a Report.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts markdown|md, json and yaml|yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (use markdown, json or yaml)", s)
}

// Ext is the file extension used when writing a report in this format.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	}
	return ".md"
}

// Encode writes the report in the given format.
func (r *Report) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown, "":
		_, err := io.WriteString(w, r.Markdown())
		return err
	}
	return fmt.Errorf("unknown format %q", f)
}
