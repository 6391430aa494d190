package session

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/edascope/internal/dataset"
	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `region,units,price
north,1,10
south,2,11
north,3,9
east,4,12
south,5,10.5
north,6,11
east,100,10
`

func TestLifecycle(t *testing.T) {
	s := New(DefaultOptions())
	assert.Equal(t, Empty, s.State())
	assert.ErrorIs(t, s.Select("units"), ErrNoDataset)

	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	assert.Equal(t, Loaded, s.State())
	v := s.View()
	assert.Equal(t, "sales.csv", v.Name)
	assert.Equal(t, [2]int{7, 3}, v.Summary.Shape)
	assert.Equal(t, []string{"units", "price"}, v.NumericColumns)
	assert.False(t, v.Correlation.Empty())
	assert.Nil(t, v.Outliers)
	assert.Nil(t, v.Distribution)
	assert.Len(t, v.Head, 5)

	require.NoError(t, s.Select("units"))
	assert.Equal(t, ColumnSelected, s.State())
	v = s.View()
	assert.Equal(t, "units", v.Selected)
	require.NotNil(t, v.Outliers)
	assert.Equal(t, 1, v.Outliers.Count)
	assert.Equal(t, [][]string{{"east", "100", "10"}}, v.OutlierRows)
	require.NotNil(t, v.Distribution)
	assert.Len(t, v.Distribution.Bins, 30)

	require.NoError(t, s.Select(""))
	assert.Equal(t, Loaded, s.State())
	assert.Nil(t, s.View().Outliers)

	s.Reset()
	assert.Equal(t, Empty, s.State())
	assert.Equal(t, View{State: Empty}, s.View())
}

func TestStaleSelectionAfterReupload(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	require.NoError(t, s.Select("units"))

	require.NoError(t, s.Upload("other.csv", []byte("a,b\n1,2\n3,5\n4,4\n")))
	assert.Equal(t, Loaded, s.State(), "new upload clears the selection")

	err := s.Select("units")
	var cnf *dataset.ColumnNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, Loaded, s.State())
	v := s.View()
	require.NotNil(t, v.Summary, "summary survives a failed selection")
	assert.Equal(t, [2]int{3, 2}, v.Summary.Shape)
	assert.Nil(t, v.Outliers)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], `column "units" not found`)

	require.NoError(t, s.Select("a"))
	assert.Empty(t, s.View().Warnings, "a good selection clears the previous warning")
}

func TestNonNumericSelection(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	err := s.Select("region")
	var nne *dataset.NonNumericColumnError
	require.True(t, errors.As(err, &nne))
	assert.Equal(t, Loaded, s.State())
}

func TestUnsupportedUploadKeepsState(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	require.NoError(t, s.Select("price"))
	before := s.View()

	err := s.Upload("notes.txt", []byte("hello"))
	var ufe *parser.UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".txt", ufe.Ext)
	assert.Equal(t, ColumnSelected, s.State())
	assert.Equal(t, before.DatasetID, s.View().DatasetID)
}

func TestNoNumericColumnsWarns(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.Upload("names.csv", []byte("first,last\nada,lovelace\nalan,turing\n")))
	v := s.View()
	assert.True(t, v.Correlation.Empty())
	assert.Empty(t, v.NumericColumns)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "no numerical columns found")

	require.Error(t, s.Select("first"))
	assert.Equal(t, Loaded, s.State())
	assert.Nil(t, s.View().Distribution)
}

func TestSelectionIsMemoized(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	require.NoError(t, s.Select("units"))
	first := s.View().Distribution
	require.NoError(t, s.Select("price"))
	require.NoError(t, s.Select("units"))
	assert.Same(t, first, s.View().Distribution)

	require.NoError(t, s.Upload("sales.csv", []byte(salesCSV)))
	require.NoError(t, s.Select("units"))
	assert.NotSame(t, first, s.View().Distribution, "a new upload is a new dataset identity")
}
