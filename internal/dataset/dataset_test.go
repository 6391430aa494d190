package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInfersSchema(t *testing.T) {
	header := []string{"id", "price", "city", "note", "when", "blank"}
	rows := [][]string{
		{"1", "10.5", "Paris", "a long free text that is unique", "2024-01-01", ""},
		{"2", "NA", "Paris", "another unique remark here", "2024-01-02", ""},
		{"3", "12", "Rome", "third remark", "2024-01-03"},
		{"4", " 7 ", "Paris", "fourth remark", "2024-01-04", "null"},
	}
	ds := New("shop.csv", "csv", header, rows, DefaultOptions())

	require.Equal(t, [2]int{4, 6}, ds.Shape())
	assert.NotEmpty(t, ds.ID)

	kinds := map[string]Kind{}
	for _, c := range ds.Columns {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, KindNumeric, kinds["id"])
	assert.Equal(t, KindNumeric, kinds["price"])
	assert.Equal(t, KindCategorical, kinds["city"])
	assert.Equal(t, KindText, kinds["note"])
	assert.Equal(t, KindDatetime, kinds["when"])
	assert.Equal(t, KindNumeric, kinds["blank"])

	price, err := ds.NumericColumn("price")
	require.NoError(t, err)
	assert.Equal(t, 1, price.MissingCount())
	assert.True(t, math.IsNaN(price.Nums[1]))
	assert.Equal(t, []float64{10.5, 12, 7}, price.Present())

	blank, err := ds.NumericColumn("blank")
	require.NoError(t, err)
	assert.Equal(t, 4, blank.MissingCount())
	assert.Empty(t, blank.Present())
	assert.True(t, math.IsNaN(blank.Nums[0]))
	assert.Equal(t, []string{"4", " 7 ", "Paris", "fourth remark", "2024-01-04", "null"}, ds.Row(3))
}

func TestColumnLookupErrors(t *testing.T) {
	ds := New("t.csv", "csv", []string{"a", "b"}, [][]string{{"1", "x"}, {"2", "x"}}, DefaultOptions())

	_, err := ds.NumericColumn("missing")
	var nf *ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Column)

	_, err = ds.NumericColumn("b")
	var nn *NonNumericColumnError
	require.True(t, errors.As(err, &nn))
	assert.Equal(t, KindCategorical, nn.Kind)
}

func TestUniqueHeaders(t *testing.T) {
	got := uniqueHeaders([]string{"a", "", "a", "a.1", "a", " b "})
	assert.Equal(t, []string{"a", "Column_2", "a.1", "a.1.1", "a.2", "b"}, got)
}

func TestRaggedRowsArePaddedAndTruncated(t *testing.T) {
	ds := New("r.csv", "csv", []string{"x", "y"}, [][]string{{"1"}, {"2", "3", "4"}}, DefaultOptions())
	require.Equal(t, 2, ds.Rows())
	y, err := ds.Column("y")
	require.NoError(t, err)
	assert.True(t, y.Missing[0])
	assert.Len(t, ds.Warnings, 1)
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"3.25", DefaultOptions(), 3.25, true},
		{"-1e3", DefaultOptions(), -1000, true},
		{"12.5%", DefaultOptions(), 12.5, true},
		{"1,5", DefaultOptions(), 0, false},
		{"1,5", Options{}, 1.5, true},
		{"1.000,25", Options{}, 1000.25, true},
		{"1,000.25", Options{}, 1000.25, true},
		{"1.000,0", Options{DecimalSeparator: ',', ThousandsSeparator: '.'}, 1000, true},
		{"Inf", DefaultOptions(), 0, false},
		{"abc", DefaultOptions(), 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in, c.opt)
		if ok != c.ok {
			t.Errorf("ParseNumeric(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseNumeric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestHead(t *testing.T) {
	ds := New("h.csv", "csv", []string{"a"}, [][]string{{"1"}, {"2"}, {"3"}}, DefaultOptions())
	assert.Len(t, ds.Head(2), 2)
	assert.Len(t, ds.Head(10), 3)
	assert.Empty(t, ds.Head(-1))
}

func TestHeaderOnlyColumnsAreEmpty(t *testing.T) {
	ds := New("h.csv", "csv", []string{"a", "b"}, nil, DefaultOptions())
	for _, c := range ds.Columns {
		assert.Equal(t, KindEmpty, c.Kind)
	}
	assert.Empty(t, ds.NumericNames())
}
