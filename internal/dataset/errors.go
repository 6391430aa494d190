package dataset

import "fmt"

// ColumnNotFoundError indicates a column name absent from the dataset schema,
// typically a selection left over from a previously loaded file.
type ColumnNotFoundError struct {
	Column  string
	Dataset string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("column %q not found in %s", e.Column, e.Dataset)
	}
	return fmt.Sprintf("column %q not found", e.Column)
}

// NonNumericColumnError indicates a column that exists but is not numeric.
type NonNumericColumnError struct {
	Column string
	Kind   Kind
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("column %q is %s, not numeric", e.Column, e.Kind)
}
