// Package session holds the interactive analysis state: one uploaded dataset,
// its derived sections, and the currently selected numeric column.
package session

import (
	"errors"

	"github.com/KaramelBytes/edascope/internal/analysis"
	"github.com/KaramelBytes/edascope/internal/dataset"
	"github.com/KaramelBytes/edascope/internal/parser"
	"go.uber.org/zap"
)

// State is the session lifecycle position.
type State int

const (
	// Empty means no dataset is loaded.
	Empty State = iota
	// Loaded means summary and correlation are available.
	Loaded
	// ColumnSelected means outlier and distribution sections are available too.
	ColumnSelected
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case ColumnSelected:
		return "column_selected"
	}
	return "empty"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ErrNoDataset is returned when selecting a column before any upload.
var ErrNoDataset = errors.New("no dataset loaded: upload a file first")

// Options configures parsing and analysis for every upload.
type Options struct {
	Parse    parser.Options
	Analysis analysis.Options
}

// DefaultOptions mirrors the parser and analysis defaults.
func DefaultOptions() Options {
	return Options{Parse: parser.DefaultOptions(), Analysis: analysis.DefaultOptions()}
}

type cacheKey struct {
	datasetID string
	column    string
}

type selection struct {
	outliers    *analysis.OutlierResult
	outlierRows [][]string
	dist        *analysis.DistributionSample
}

// Session is explicit per-user state. It is not safe for concurrent use;
// callers serialize access.
type Session struct {
	opt Options

	state   State
	ds      *dataset.Dataset
	summary *analysis.Summary
	corr    *analysis.CorrelationMatrix
	column  string
	sel     *selection

	loadWarnings []string
	selWarning   string

	cache map[cacheKey]*selection
}

// New returns an empty session.
func New(opt Options) *Session {
	return &Session{opt: opt, cache: make(map[cacheKey]*selection)}
}

// State reports the lifecycle position.
func (s *Session) State() State { return s.state }

// Dataset returns the loaded dataset, or nil.
func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Upload parses content and replaces the current dataset. On failure the
// previous state, including any selection, is kept and the error returned.
func (s *Session) Upload(name string, content []byte) error {
	ds, err := parser.Load(name, content, s.opt.Parse)
	if err != nil {
		zap.L().Warn("upload rejected", zap.String("file", name), zap.Error(err))
		return err
	}
	s.clear()
	s.ds = ds
	s.state = Loaded
	s.summary = analysis.Summarize(ds)
	s.corr = analysis.Correlate(ds)
	s.loadWarnings = append(s.loadWarnings, ds.Warnings...)
	if len(ds.NumericColumns()) == 0 {
		s.loadWarnings = append(s.loadWarnings, (&analysis.EmptyNumericColumnsError{Dataset: ds.Name}).Error())
	}
	zap.L().Info("dataset uploaded",
		zap.String("file", ds.Name),
		zap.String("id", ds.ID),
		zap.Int("rows", ds.Rows()),
		zap.Int("cols", ds.Cols()))
	return nil
}

// Select computes the outlier and distribution sections for column. An empty
// column clears the selection. An invalid selection is recorded as a warning,
// the session falls back to Loaded and the summary sections stay intact.
func (s *Session) Select(column string) error {
	if s.ds == nil {
		return ErrNoDataset
	}
	s.state = Loaded
	s.column = ""
	s.sel = nil
	s.selWarning = ""
	if column == "" {
		return nil
	}
	if len(s.ds.NumericColumns()) == 0 {
		return s.reject(&analysis.EmptyNumericColumnsError{Dataset: s.ds.Name})
	}

	key := cacheKey{datasetID: s.ds.ID, column: column}
	sel, ok := s.cache[key]
	if !ok {
		out, err := analysis.DetectOutliersK(s.ds, column, s.opt.Analysis.IQRMultiplier)
		if err != nil {
			return s.reject(err)
		}
		dist, err := analysis.Distribute(s.ds, column, s.opt.Analysis.Bins)
		if err != nil {
			return s.reject(err)
		}
		sel = &selection{outliers: out, outlierRows: out.Subset(s.ds), dist: dist}
		s.cache[key] = sel
	}
	s.column = column
	s.sel = sel
	s.state = ColumnSelected
	return nil
}

func (s *Session) reject(err error) error {
	s.selWarning = err.Error()
	zap.L().Warn("column selection rejected", zap.String("dataset", s.ds.Name), zap.Error(err))
	return err
}

// Reset drops the dataset and every derived section.
func (s *Session) Reset() {
	s.clear()
}

func (s *Session) clear() {
	s.state = Empty
	s.ds = nil
	s.summary = nil
	s.corr = nil
	s.column = ""
	s.sel = nil
	s.loadWarnings = nil
	s.selWarning = ""
	s.cache = make(map[cacheKey]*selection)
}

// View is a snapshot of everything the presentation layer renders.
type View struct {
	State          State                        `json:"state"`
	Name           string                       `json:"name,omitempty"`
	DatasetID      string                       `json:"dataset_id,omitempty"`
	Summary        *analysis.Summary            `json:"summary,omitempty"`
	Correlation    *analysis.CorrelationMatrix  `json:"correlation,omitempty"`
	TopPairs       []analysis.PairCorr          `json:"top_correlations,omitempty"`
	Head           [][]string                   `json:"head,omitempty"`
	NumericColumns []string                     `json:"numeric_columns,omitempty"`
	Selected       string                       `json:"selected_column,omitempty"`
	Outliers       *analysis.OutlierResult      `json:"outliers,omitempty"`
	OutlierRows    [][]string                   `json:"outlier_rows,omitempty"`
	Distribution   *analysis.DistributionSample `json:"distribution,omitempty"`
	Warnings       []string                     `json:"warnings,omitempty"`
}

// View returns the current snapshot. Slices are shared with the session and
// must not be modified.
func (s *Session) View() View {
	v := View{State: s.state}
	if s.ds == nil {
		return v
	}
	v.Name = s.ds.Name
	v.DatasetID = s.ds.ID
	v.Summary = s.summary
	v.Correlation = s.corr
	top := s.opt.Analysis.TopCorrelations
	if top <= 0 {
		top = 10
	}
	v.TopPairs = s.corr.TopPairs(top)
	if n := s.opt.Analysis.SampleRows; n > 0 {
		v.Head = s.ds.Head(n)
	}
	v.NumericColumns = s.ds.NumericNames()
	v.Warnings = append(v.Warnings, s.loadWarnings...)
	if s.selWarning != "" {
		v.Warnings = append(v.Warnings, s.selWarning)
	}
	if s.sel != nil {
		v.Selected = s.column
		v.Outliers = s.sel.outliers
		v.OutlierRows = s.sel.outlierRows
		v.Distribution = s.sel.dist
	}
	return v
}
