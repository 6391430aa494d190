package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			vals := row
			require.NoError(t, f.SetSheetRow(name, cell, &vals))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXSheetSelection(t *testing.T) {
	content := writeWorkbook(t, map[string][][]any{
		"Notes": {{"comment"}, {"first sheet is not data"}},
		"Data": {
			{"Group", "Score", "Weight"},
			{"A", 10.5, 3},
			{"B", 9, nil},
			{"A", 11.25, 4},
		},
	}, "Notes", "Data")

	opt := DefaultOptions()
	opt.SheetName = "data"
	ds, err := Load("book.xlsx", content, opt)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", ds.Format)
	assert.Equal(t, [2]int{3, 3}, ds.Shape())
	assert.Equal(t, []string{"Score", "Weight"}, ds.NumericNames())
	w, err := ds.Column("Weight")
	require.NoError(t, err)
	assert.Equal(t, 1, w.MissingCount())

	opt = DefaultOptions()
	opt.SheetIndex = 2
	byIndex, err := Load("book.xlsx", content, opt)
	require.NoError(t, err)
	assert.Equal(t, ds.ColumnNames(), byIndex.ColumnNames())

	first, err := Load("book.xlsx", content, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"comment"}, first.ColumnNames())
}

func TestXLSXMissingSheet(t *testing.T) {
	content := writeWorkbook(t, map[string][][]any{"Data": {{"a"}, {1}}}, "Data")
	opt := DefaultOptions()
	opt.SheetName = "Nope"
	_, err := Load("book.xlsx", content, opt)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Available sheets: Data"), err.Error())
}

func TestXLSXCorruptContent(t *testing.T) {
	_, err := Load("broken.xlsx", []byte("not a zip"), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open xlsx")
}
