package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"go.uber.org/zap"
)

// Options controls how uploaded files become datasets.
type Options struct {
	Schema dataset.Options
	// Delimiter for CSV. If 0, ','.
	Delimiter rune
	// SheetName selects an XLSX sheet; when empty SheetIndex (1-based) is used, defaulting to the first sheet.
	SheetName  string
	SheetIndex int
	// MaxRows caps data rows loaded; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns comma-delimited CSV, first sheet, no row cap.
func DefaultOptions() Options {
	return Options{Schema: dataset.DefaultOptions(), Delimiter: ','}
}

// Parser turns file content into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(name string, content []byte, opt Options) (*dataset.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Supported lists the accepted file suffixes.
func Supported() []string { return []string{".csv", ".xlsx"} }

// Load selects a parser strictly by file-name suffix and parses content.
func Load(name string, content []byte, opt Options) (*dataset.Dataset, error) {
	for _, p := range registry {
		if p.CanParse(name) {
			ds, err := p.Parse(filepath.Base(name), content, opt)
			if err != nil {
				return nil, err
			}
			zap.L().Debug("dataset loaded",
				zap.String("file", ds.Name),
				zap.String("id", ds.ID),
				zap.Int("rows", ds.Rows()),
				zap.Int("cols", ds.Cols()),
				zap.Int("numeric", len(ds.NumericColumns())))
			return ds, nil
		}
	}
	return nil, &UnsupportedFormatError{Name: filepath.Base(name), Ext: strings.ToLower(filepath.Ext(name))}
}

// LoadFile reads path from disk and parses it. The suffix is checked before
// reading so unsupported files are rejected without I/O.
func LoadFile(path string, opt Options) (*dataset.Dataset, error) {
	if !CanLoad(path) {
		return nil, &UnsupportedFormatError{Name: filepath.Base(path), Ext: strings.ToLower(filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(path, data, opt)
}

// CanLoad reports whether any registered parser accepts the file name.
func CanLoad(name string) bool {
	for _, p := range registry {
		if p.CanParse(name) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

// UnsupportedFormatError indicates a file whose suffix matches no recognized format.
type UnsupportedFormatError struct {
	Name string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file format %s for %q: upload a %s file", ext, e.Name, strings.Join(Supported(), " or "))
}

// ErrEmptyDataset indicates a file without a header row.
var ErrEmptyDataset = errors.New("dataset is empty: no header row")

func hasSuffix(filename, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(filename), suffix)
}

// capRows applies MaxRows and returns the note describing any truncation.
func capRows(rows [][]string, maxRows int) ([][]string, string) {
	if maxRows <= 0 || len(rows) <= maxRows {
		return rows, ""
	}
	return rows[:maxRows], fmt.Sprintf("processed only %d/%d rows due to MaxRows", maxRows, len(rows))
}

func build(name, format string, header []string, rows [][]string, opt Options) (*dataset.Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyDataset)
	}
	rows, note := capRows(rows, opt.MaxRows)
	ds := dataset.New(name, format, header, rows, opt.Schema)
	if note != "" {
		ds.Warnings = append(ds.Warnings, note)
	}
	return ds, nil
}
