package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/KaramelBytes/edascope/internal/analysis"
	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/KaramelBytes/edascope/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaLoad       loadFlags
	anaOutputPath string
	anaFormat     string
	anaColumn     string
	anaBins       int
	anaSampleRows int
	anaTopCorr    int
	anaIQR        float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/XLSX file and produce a summary report",
	Long: `Analyze loads one .csv or .xlsx file and reports shape, missing values,
descriptive statistics and the correlation matrix. With --column it also reports
IQR outliers and the histogram/density of that numeric column.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := currentConfig()
		popt, err := anaLoad.parserOptions(c)
		if err != nil {
			return err
		}
		format, err := analysis.ParseFormat(anaFormat)
		if err != nil {
			return err
		}
		aopt := analysisOptions(c)
		aopt.Column = anaColumn
		if anaBins > 0 {
			aopt.Bins = anaBins
		}
		if cmd.Flags().Changed("sample-rows") {
			aopt.SampleRows = anaSampleRows
		}
		if anaTopCorr > 0 {
			aopt.TopCorrelations = anaTopCorr
		}
		if anaIQR > 0 {
			aopt.IQRMultiplier = anaIQR
		}

		ds, err := parser.LoadFile(path, popt)
		if err != nil {
			return err
		}
		rep := analysis.Analyze(ds, aopt)
		var buf bytes.Buffer
		if err := rep.Encode(&buf, format); err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), buf.String())
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaLoad.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	analyzeCmd.Flags().StringVarP(&anaColumn, "column", "c", "", "numeric column for outlier and distribution sections")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 0, "histogram bins (default from config, 30)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of head rows to include (0 disables)")
	analyzeCmd.Flags().IntVar(&anaTopCorr, "top-corr", 10, "number of strongest correlation pairs to list")
	analyzeCmd.Flags().Float64Var(&anaIQR, "iqr-multiplier", 0, "IQR fence multiplier (default from config, 1.5)")
}
