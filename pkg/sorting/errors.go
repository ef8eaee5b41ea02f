package sorting

import "fmt"

// SortingError is returned when a sorter cannot read the key of some record.
// The sort is aborted and no partial result is returned.
type SortingError struct {
	Algorithm string
	InputSize int
	Err       error
}

func (e *SortingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed on %d records", e.Algorithm, e.InputSize)
	}
	return fmt.Sprintf("%s failed on %d records: %v", e.Algorithm, e.InputSize, e.Err)
}

func (e *SortingError) Unwrap() error {
	return e.Err
}
