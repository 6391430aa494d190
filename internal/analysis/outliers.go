package analysis

import (
	"github.com/KaramelBytes/edascope/internal/dataset"
)

// IQRMultiplier scales the interquartile range into the outlier fences.
const IQRMultiplier = 1.5

// Bounds are the IQR fences of one column.
type Bounds struct {
	Q1    Float `json:"q1" yaml:"q1"`
	Q3    Float `json:"q3" yaml:"q3"`
	IQR   Float `json:"iqr" yaml:"iqr"`
	Lower Float `json:"lower_bound" yaml:"lower_bound"`
	Upper Float `json:"upper_bound" yaml:"upper_bound"`
}

// OutlierResult lists the rows whose value falls strictly outside the bounds.
// Rows are 0-based indices into the dataset, ascending.
type OutlierResult struct {
	Column     string    `json:"column" yaml:"column"`
	Multiplier float64   `json:"multiplier" yaml:"multiplier"`
	Bounds     Bounds    `json:"bounds" yaml:"bounds"`
	Count      int       `json:"count" yaml:"count"`
	Rows       []int     `json:"rows" yaml:"rows"`
	Values     []float64 `json:"values" yaml:"values"`
}

// DetectOutliers applies the 1.5·IQR rule to a numeric column.
func DetectOutliers(ds *dataset.Dataset, column string) (*OutlierResult, error) {
	return DetectOutliersK(ds, column, IQRMultiplier)
}

// DetectOutliersK applies the k·IQR rule. Missing values take no part in
// either the quartiles or the membership test. k <= 0 means IQRMultiplier.
func DetectOutliersK(ds *dataset.Dataset, column string, k float64) (*OutlierResult, error) {
	c, err := ds.NumericColumn(column)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = IQRMultiplier
	}
	res := &OutlierResult{Column: column, Multiplier: k, Rows: []int{}, Values: []float64{}}
	b := iqrBounds(sortedCopy(c.Present()), k)
	res.Bounds = b
	if !b.Lower.Valid() {
		return res, nil
	}
	lo, hi := float64(b.Lower), float64(b.Upper)
	for i, v := range c.Nums {
		if c.Missing[i] {
			continue
		}
		if v < lo || v > hi {
			res.Rows = append(res.Rows, i)
			res.Values = append(res.Values, v)
		}
	}
	res.Count = len(res.Rows)
	return res, nil
}

func iqrBounds(sorted []float64, k float64) Bounds {
	if len(sorted) == 0 {
		return Bounds{Q1: NaN(), Q3: NaN(), IQR: NaN(), Lower: NaN(), Upper: NaN()}
	}
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    Float(q1),
		Q3:    Float(q3),
		IQR:   Float(iqr),
		Lower: Float(q1 - k*iqr),
		Upper: Float(q3 + k*iqr),
	}
}

// Subset returns the outlier rows with every column, in dataset order.
func (r *OutlierResult) Subset(ds *dataset.Dataset) [][]string {
	if r == nil {
		return nil
	}
	out := make([][]string, 0, len(r.Rows))
	for _, i := range r.Rows {
		out = append(out, ds.Row(i))
	}
	return out
}
