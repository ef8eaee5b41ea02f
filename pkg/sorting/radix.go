package sorting

import (
	"time"

	"platebench/pkg/common"
	"platebench/pkg/keys"
)

// RadixSorter is an LSD radix sort over the 37-symbol plate alphabet
// (digits, letters, padding). Keys are left-aligned in a field as wide as the
// longest key; each pass is a stable counting sort on one column of that
// field, starting from the rightmost column.
type RadixSorter struct{}

func NewRadixSorter() *RadixSorter {
	return &RadixSorter{}
}

func (rs *RadixSorter) Name() string {
	return RadixSortName
}

// Sort returns a new slice ordered by the normalized value of keyField.
// The number of passes equals the length of the longest normalized key.
func (rs *RadixSorter) Sort(records []common.Record, keyField string) ([]common.Record, SortMetrics, error) {
	metrics := SortMetrics{
		Algorithm:   RadixSortName,
		InputSize:   len(records),
		BucketsUsed: keys.Radix,
	}
	if len(records) == 0 {
		return []common.Record{}, metrics, nil
	}

	start := time.Now()
	items, err := extract(records, keyField, RadixSortName)
	if err != nil {
		return nil, SortMetrics{}, err
	}

	maxLength := 0
	for _, it := range items {
		if len(it.key) > maxLength {
			maxLength = len(it.key)
		}
	}

	c := &counter{}
	result := items
	for pos := 0; pos < maxLength; pos++ {
		result = countingSortByPosition(result, maxLength, pos, c)
		c.passes++
	}
	out := unwrap(result)
	metrics.Elapsed = time.Since(start)

	metrics.Operations = c.operations
	metrics.Passes = c.passes
	return out, metrics, nil
}

// countingSortByPosition 单个字符位置上的稳定计数排序
func countingSortByPosition(items []item, width, pos int, c *counter) []item {
	var count [keys.Radix]int
	output := make([]item, len(items))

	for _, it := range items {
		count[classify(it.key, width, pos, c)]++
	}

	// prefix sums in bucket order: count[b] becomes the end offset of bucket b
	offset := 0
	for _, b := range keys.BucketOrder {
		offset += count[b]
		count[b] = offset
	}

	// right-to-left placement keeps equal characters in their previous order
	for i := len(items) - 1; i >= 0; i-- {
		b := classify(items[i].key, width, pos, c)
		count[b]--
		output[count[b]] = items[i]
	}
	return output
}

func classify(key string, width, pos int, c *counter) int {
	c.operations++
	return keys.FieldChar(key, width, pos)
}
