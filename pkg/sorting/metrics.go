package sorting

import (
	"fmt"
	"time"
)

// SortMetrics 单次排序的度量，创建后不再修改
type SortMetrics struct {
	Algorithm string
	InputSize int

	// merge sort
	Comparisons    int64
	RecursiveCalls int64

	// radix sort
	Operations  int64
	Passes      int
	BucketsUsed int

	Elapsed time.Duration
}

// PrimaryOps is the algorithm specific operation count: comparisons for
// merge sort, character classifications for radix sort.
func (m SortMetrics) PrimaryOps() int64 {
	if m.Algorithm == RadixSortName {
		return m.Operations
	}
	return m.Comparisons
}

// ElapsedMillis mirrors the millisecond figures reported by the CLI.
func (m SortMetrics) ElapsedMillis() float64 {
	return float64(m.Elapsed.Nanoseconds()) / 1e6
}

func (m SortMetrics) String() string {
	if m.Algorithm == RadixSortName {
		return fmt.Sprintf("%s{n=%d ops=%d passes=%d elapsed=%v}",
			m.Algorithm, m.InputSize, m.Operations, m.Passes, m.Elapsed)
	}
	return fmt.Sprintf("%s{n=%d cmp=%d calls=%d elapsed=%v}",
		m.Algorithm, m.InputSize, m.Comparisons, m.RecursiveCalls, m.Elapsed)
}
