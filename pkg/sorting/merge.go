package sorting

import (
	"time"

	"platebench/pkg/common"
)

// MergeSorter is a stable top-down merge sort over normalized keys.
// It guarantees O(n log n) comparisons and uses O(n) auxiliary storage.
type MergeSorter struct{}

func NewMergeSorter() *MergeSorter {
	return &MergeSorter{}
}

func (ms *MergeSorter) Name() string {
	return MergeSortName
}

// Sort returns a new slice ordered by the normalized value of keyField.
// Equal keys keep their original relative order. The input is not modified.
func (ms *MergeSorter) Sort(records []common.Record, keyField string) ([]common.Record, SortMetrics, error) {
	metrics := SortMetrics{
		Algorithm: MergeSortName,
		InputSize: len(records),
	}

	start := time.Now()
	items, err := extract(records, keyField, MergeSortName)
	if err != nil {
		return nil, SortMetrics{}, err
	}

	c := &counter{}
	sorted := mergeSort(items, c)
	out := unwrap(sorted)
	metrics.Elapsed = time.Since(start)

	metrics.Comparisons = c.comparisons
	metrics.RecursiveCalls = c.recursiveCalls
	return out, metrics, nil
}

func mergeSort(items []item, c *counter) []item {
	c.recursiveCalls++
	if len(items) <= 1 {
		return items
	}

	mid := len(items) / 2
	left := mergeSort(items[:mid], c)
	right := mergeSort(items[mid:], c)
	return merge(left, right, c)
}

// merge 相等时取左侧元素，保证稳定
func merge(left, right []item, c *counter) []item {
	result := make([]item, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		c.comparisons++
		if left[i].key <= right[j].key {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	result = append(result, left[i:]...)
	result = append(result, right[j:]...)
	return result
}
