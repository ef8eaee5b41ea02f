package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platebench/pkg/common"
	"platebench/pkg/sorting"
)

func sortedPlates(t *testing.T) []common.Record {
	t.Helper()
	in := []common.Record{
		{"placa": "XYZ-9999", "estado_ANT": "Habilitada"},
		{"placa": "ABC-1234", "estado_ANT": "Suspendida"},
		{"placa": "MNO-5555", "estado_ANT": "Habilitada"},
	}
	out, _, err := sorting.NewMergeSorter().Sort(in, "placa")
	require.NoError(t, err)
	return out
}

func TestSearchFindsPlateInAnyFormat(t *testing.T) {
	sorted := sortedPlates(t)
	bs := NewBinarySearcher("placa")
	for _, q := range []string{"ABC-1234", "abc1234", "a-b-c-1-2-3-4", " Abc 1234 "} {
		res := bs.Search(sorted, q)
		require.True(t, res.Found, q)
		assert.Equal(t, "ABC-1234", res.Record["placa"])
		assert.Equal(t, "Suspendida", res.Record["estado_ANT"])
		assert.Equal(t, 0, res.Index)
		assert.LessOrEqual(t, res.Comparisons, 2)
	}
}

func TestSearchMissingPlate(t *testing.T) {
	res := NewBinarySearcher("placa").Search(sortedPlates(t), "QQQ-0000")
	assert.False(t, res.Found)
	assert.Nil(t, res.Record)
	assert.Equal(t, -1, res.Index)
	assert.Positive(t, res.Comparisons)
}

func TestEmptySequence(t *testing.T) {
	res := NewBinarySearcher("placa").Search(nil, "ABC-1234")
	assert.False(t, res.Found)
	assert.Zero(t, res.Comparisons)
}

func TestEmptyTargetIsNotFound(t *testing.T) {
	res := NewBinarySearcher("placa").Search(sortedPlates(t), "")
	assert.False(t, res.Found)
}

func TestFoundRecordIsACopy(t *testing.T) {
	sorted := sortedPlates(t)
	res := NewBinarySearcher("placa").Search(sorted, "MNO-5555")
	require.True(t, res.Found)
	res.Record["estado_ANT"] = "Bloqueada"
	assert.Equal(t, "Habilitada", sorted[res.Index]["estado_ANT"])
}

func TestAllKeysFoundWithinLogBound(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 8, 100, 1023, 1024} {
		in := make([]common.Record, n)
		for i := range in {
			in[i] = common.Record{"placa": fmt.Sprintf("AAA-%04d", i*2)}
		}
		bound := int(math.Ceil(math.Log2(float64(n + 1))))
		bs := NewBinarySearcher("placa")

		for i := 0; i < n; i++ {
			res := bs.Search(in, fmt.Sprintf("aaa%04d", i*2))
			require.True(t, res.Found, "n=%d i=%d", n, i)
			assert.Equal(t, i, res.Index)
			assert.LessOrEqual(t, res.Comparisons, bound)

			miss := bs.Search(in, fmt.Sprintf("AAA-%04d", i*2+1))
			assert.False(t, miss.Found)
			assert.LessOrEqual(t, miss.Comparisons, bound)
		}
	}
}

func TestDuplicatesReturnSomeMatch(t *testing.T) {
	in := []common.Record{
		{"placa": "AAA-0001", "id": 0},
		{"placa": "BBB-0002", "id": 1},
		{"placa": "bbb0002", "id": 2},
		{"placa": "BBB-0002", "id": 3},
		{"placa": "CCC-0003", "id": 4},
	}
	res := NewBinarySearcher("placa").Search(in, "BBB-0002")
	require.True(t, res.Found)
	assert.Contains(t, []int{1, 2, 3}, res.Record["id"])
	assert.Equal(t, 1, res.Comparisons)
}

func TestMalformedRecordsDoNotFail(t *testing.T) {
	in := []common.Record{
		{"other": "x"},
		{"placa": "ABC-1234"},
	}
	res := NewBinarySearcher("placa").Search(in, "ABC-1234")
	assert.True(t, res.Found)
	assert.Equal(t, "placa", NewBinarySearcher("").KeyField())
}
