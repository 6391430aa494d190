package analysis_test

import (
	"testing"

	"github.com/KaramelBytes/edascope/internal/analysis"
	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const roundTripCSV = `city,temp,rain,visits
Paris,12.5,3,120
Rome,18.25,,98
Oslo,-2,7.5,40
Paris,11,2,
Madrid,21.75,0,150
`

func roundTripWorkbook(t *testing.T) []byte {
	t.Helper()
	return workbook(t, [][]any{
		{"city", "temp", "rain", "visits"},
		{"Paris", 12.5, 3, 120},
		{"Rome", 18.25, nil, 98},
		{"Oslo", -2, 7.5, 40},
		{"Paris", 11, 2, nil},
		{"Madrid", 21.75, 0, 150},
	})
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		vals := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &vals))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCSVAndXLSXProduceIdenticalAnalysis(t *testing.T) {
	fromCSV, err := parser.Load("weather.csv", []byte(roundTripCSV), parser.DefaultOptions())
	require.NoError(t, err)
	fromXLSX, err := parser.Load("weather.xlsx", roundTripWorkbook(t), parser.DefaultOptions())
	require.NoError(t, err)

	sc := analysis.Summarize(fromCSV)
	sx := analysis.Summarize(fromXLSX)
	assert.Equal(t, [2]int{5, 4}, sc.Shape)
	assert.Equal(t, sc, sx)

	cc := analysis.Correlate(fromCSV)
	cx := analysis.Correlate(fromXLSX)
	require.Equal(t, []string{"temp", "rain", "visits"}, cc.Columns)
	assert.Equal(t, cc, cx)

	oc, err := analysis.DetectOutliers(fromCSV, "temp")
	require.NoError(t, err)
	ox, err := analysis.DetectOutliers(fromXLSX, "temp")
	require.NoError(t, err)
	assert.Equal(t, oc, ox)
}

func TestBlankInteriorRowSurvivesBothFormats(t *testing.T) {
	fromCSV, err := parser.Load("gaps.csv", []byte("a,b\n1,2\n,\n3,5\n4,9\n"), parser.DefaultOptions())
	require.NoError(t, err)
	book := workbook(t, [][]any{
		{"a", "b"},
		{1, 2},
		{nil, nil},
		{3, 5},
		{4, 9},
		{nil, nil},
	})
	fromXLSX, err := parser.Load("gaps.xlsx", book, parser.DefaultOptions())
	require.NoError(t, err)

	sc := analysis.Summarize(fromCSV)
	sx := analysis.Summarize(fromXLSX)
	assert.Equal(t, [2]int{4, 2}, sc.Shape)
	assert.Equal(t, sc.Shape, sx.Shape, "trailing blank rows are dropped, interior ones kept")
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, sx.Missing)
	assert.Equal(t, sc.Missing, sx.Missing)
	assert.Equal(t, sc.Stats, sx.Stats)
	assert.Equal(t, analysis.Correlate(fromCSV), analysis.Correlate(fromXLSX))
}
