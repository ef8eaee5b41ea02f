package sorting

import (
	"fmt"

	"platebench/pkg/common"
	"platebench/pkg/keys"
)

const (
	MergeSortName = "merge_sort"
	RadixSortName = "radix_sort"
)

// Sorter 两种排序算法的统一接口
type Sorter interface {
	Name() string
	Sort(records []common.Record, keyField string) ([]common.Record, SortMetrics, error)
}

// DisplayName maps an algorithm identifier to its human readable form.
func DisplayName(algorithm string) string {
	switch algorithm {
	case MergeSortName:
		return "Merge Sort"
	case RadixSortName:
		return "Radix Sort"
	default:
		return algorithm
	}
}

// ByName returns a fresh sorter for a known algorithm identifier.
func ByName(name string) (Sorter, error) {
	switch name {
	case MergeSortName:
		return NewMergeSorter(), nil
	case RadixSortName:
		return NewRadixSorter(), nil
	default:
		return nil, fmt.Errorf("unknown sort algorithm %q", name)
	}
}

// All returns both sorters in the fixed order used for tie-breaking.
func All() []Sorter {
	return []Sorter{NewMergeSorter(), NewRadixSorter()}
}

// item pairs a record reference with its normalized key so the key is
// computed once per sort instead of once per comparison.
type item struct {
	rec common.Record
	key string
}

func extract(records []common.Record, keyField, algorithm string) ([]item, error) {
	items := make([]item, len(records))
	for i, r := range records {
		raw, err := common.KeyOf(r, keyField)
		if err != nil {
			return nil, &SortingError{
				Algorithm: algorithm,
				InputSize: len(records),
				Err:       fmt.Errorf("record %d: %w", i, err),
			}
		}
		items[i] = item{rec: r, key: keys.Normalize(raw)}
	}
	return items, nil
}

func unwrap(items []item) []common.Record {
	out := make([]common.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

// counter 通过指针传入递归，替代闭包捕获的计数器
type counter struct {
	comparisons    int64
	recursiveCalls int64
	operations     int64
	passes         int
}
