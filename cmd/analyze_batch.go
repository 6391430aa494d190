package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/edascope/internal/analysis"
	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/KaramelBytes/edascope/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	abLoad       loadFlags
	abOutDir     string
	abFormat     string
	abColumn     string
	abSampleRows int
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/XLSX files and write one summary per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		c := currentConfig()
		popt, err := abLoad.parserOptions(c)
		if err != nil {
			return err
		}
		format, err := analysis.ParseFormat(abFormat)
		if err != nil {
			return err
		}
		aopt := analysisOptions(c)
		aopt.Column = abColumn
		if cmd.Flags().Changed("sample-rows") {
			aopt.SampleRows = abSampleRows
		}

		outDir := abOutDir
		if outDir == "" {
			outDir = c.OutputDir
		}
		if outDir != "" {
			if err := utils.EnsureDir(outDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := parser.LoadFile(path, popt)
			if err != nil {
				failed++
				zap.L().Warn("batch file skipped", zap.String("file", path), zap.Error(err))
				fmt.Fprintf(os.Stderr, "⚠ Skipping %s: %v\n", path, err)
				continue
			}
			rep := analysis.Analyze(ds, aopt)
			var buf bytes.Buffer
			if err := rep.Encode(&buf, format); err != nil {
				return err
			}

			if outDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, buf.String())
				}
				continue
			}
			base := filepath.Base(path)
			safe := strings.TrimSuffix(base, filepath.Ext(base))
			if popt.SheetName != "" {
				safe = safe + "__sheet-" + utils.Slug(popt.SheetName, "sheet")
			}
			outFile := utils.UniquePath(outDir, safe, ".summary"+format.Ext())
			if !abQuiet && filepath.Base(outFile) != safe+".summary"+format.Ext() {
				fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, buf.Bytes()); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		if failed == total {
			return fmt.Errorf("all %d files failed to load", total)
		}
		if failed > 0 && !abQuiet {
			fmt.Fprintf(out, "⚠ %d of %d files skipped\n", failed, total)
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths, deduplicated and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abLoad.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for summary files (default: config output_dir, else stdout)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	analyzeBatchCmd.Flags().StringVarP(&abColumn, "column", "c", "", "numeric column analyzed in every file that has it")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of head rows to include (0 disables)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
