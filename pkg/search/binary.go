package search

import (
	"platebench/pkg/common"
	"platebench/pkg/keys"
)

// SearchOutcome 二分查找的结果；未找到时 Record 为 nil、Index 为 -1
type SearchOutcome struct {
	Record      common.Record
	Found       bool
	Index       int
	Comparisons int
}

// BinarySearcher looks up a key in a sequence already sorted ascending by
// normalized key. Sortedness is the caller's responsibility and is not checked.
type BinarySearcher struct {
	keyField string
}

func NewBinarySearcher(keyField string) *BinarySearcher {
	if keyField == "" {
		keyField = common.DefaultKeyField
	}
	return &BinarySearcher{keyField: keyField}
}

func (bs *BinarySearcher) KeyField() string {
	return bs.keyField
}

// Search normalizes target once and bisects. The first midpoint that matches
// is returned, which is some occurrence of a duplicated key, not necessarily
// the first one. Absence is a normal outcome, never an error.
func (bs *BinarySearcher) Search(sorted []common.Record, target string) SearchOutcome {
	want := keys.Normalize(target)
	outcome := SearchOutcome{Index: -1}

	left, right := 0, len(sorted)-1
	for left <= right {
		outcome.Comparisons++
		mid := left + (right-left)/2
		got := bs.keyAt(sorted[mid])

		switch {
		case got == want:
			outcome.Found = true
			outcome.Index = mid
			outcome.Record = sorted[mid].Clone()
			return outcome
		case got < want:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return outcome
}

// keyAt 键缺失或类型不对时按空键比较，查找本身从不失败
func (bs *BinarySearcher) keyAt(rec common.Record) string {
	raw, err := common.KeyOf(rec, bs.keyField)
	if err != nil {
		return ""
	}
	return keys.Normalize(raw)
}
