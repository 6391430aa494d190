package analysis

import "fmt"

// EmptyNumericColumnsError indicates a dataset without any numeric column, so
// no outlier or distribution section can be produced.
type EmptyNumericColumnsError struct {
	Dataset string
}

func (e *EmptyNumericColumnsError) Error() string {
	if e.Dataset == "" {
		return "no numerical columns found for analysis"
	}
	return fmt.Sprintf("no numerical columns found for analysis in %s", e.Dataset)
}
