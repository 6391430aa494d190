package parser

import (
	"testing"
)

func TestCSVDelimiterAndBOM(t *testing.T) {
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.Schema.DecimalSeparator = ','
	opt.Schema.ThousandsSeparator = '.'
	content := "\xef\xbb\xbfGroup;Score\nA;10,5\nB;1.000,0\n"
	ds, err := csvParser{}.Parse("locale.csv", []byte(content), opt)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.ColumnNames()[0] != "Group" {
		t.Fatalf("BOM not stripped: %q", ds.ColumnNames()[0])
	}
	score, err := ds.NumericColumn("Score")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Nums[0] != 10.5 || score.Nums[1] != 1000 {
		t.Fatalf("score values = %v", score.Nums)
	}
}

func TestCSVQuotedFields(t *testing.T) {
	content := "name,comment\n\"Smith, J\",\"said \"\"hi\"\"\"\n"
	ds, err := csvParser{}.Parse("q.csv", []byte(content), DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	row := ds.Row(0)
	if row[0] != "Smith, J" || row[1] != `said "hi"` {
		t.Fatalf("row = %#v", row)
	}
}
