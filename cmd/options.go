package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edascope/internal/analysis"
	cfgpkg "github.com/KaramelBytes/edascope/internal/config"
	"github.com/KaramelBytes/edascope/internal/dataset"
	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/spf13/cobra"
)

// loadFlags are the dataset loading flags shared by analyze, analyze-batch and serve.
// Unset flags fall back to the configuration.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (config csv_delimiter if omitted)")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'|'auto'")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", -1, "maximum rows to load (0 = unlimited, default from config)")
}

func (f *loadFlags) parserOptions(c *cfgpkg.Global) (parser.Options, error) {
	opt := parser.DefaultOptions()

	delim := c.CSVDelimiter
	if f.delimiter != "" {
		delim = f.delimiter
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	opt.Delimiter = r

	dec := c.DecimalSeparator
	if f.decimal != "" {
		dec = f.decimal
	}
	if opt.Schema.DecimalSeparator, err = cfgpkg.ParseSeparator(dec); err != nil {
		return opt, fmt.Errorf("unsupported --decimal: %w", err)
	}
	th := c.ThousandsSeparator
	if f.thousands != "" {
		th = f.thousands
	}
	if opt.Schema.ThousandsSeparator, err = cfgpkg.ParseSeparator(th); err != nil {
		return opt, fmt.Errorf("unsupported --thousands: %w", err)
	}
	if opt.Schema.DecimalSeparator != 0 && opt.Schema.DecimalSeparator == opt.Schema.ThousandsSeparator {
		return opt, fmt.Errorf("decimal and thousands separators must differ")
	}
	if len(c.NAValues) > 0 {
		opt.Schema.NAValues = append(append([]string{}, dataset.DefaultNAValues...), c.NAValues...)
	}

	opt.SheetName = c.XLSXSheet
	if f.sheetName != "" {
		opt.SheetName = f.sheetName
	}
	if f.sheetIndex > 0 {
		opt.SheetName = f.sheetName
		opt.SheetIndex = f.sheetIndex
	}
	opt.MaxRows = c.MaxRows
	if f.maxRows >= 0 {
		opt.MaxRows = f.maxRows
	}
	return opt, nil
}

// analysisOptions starts from the configuration; callers override per flag.
func analysisOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.Bins = c.Bins
	opt.IQRMultiplier = c.IQRMultiplier
	opt.SampleRows = c.SampleRows
	return opt
}
