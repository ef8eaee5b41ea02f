package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platebench/pkg/sorting"
)

func TestRecordSort(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewStats(reg, "")

	s.RecordSort(sorting.SortMetrics{Algorithm: sorting.MergeSortName, Comparisons: 12, RecursiveCalls: 9, Elapsed: time.Millisecond})
	s.RecordSort(sorting.SortMetrics{Algorithm: sorting.RadixSortName, Operations: 70, Passes: 7, Elapsed: time.Millisecond})
	s.RecordSortError(sorting.RadixSortName)

	assert.Equal(t, 12.0, testutil.ToFloat64(s.sortOps.WithLabelValues(sorting.MergeSortName, "comparisons")))
	assert.Equal(t, 9.0, testutil.ToFloat64(s.sortOps.WithLabelValues(sorting.MergeSortName, "recursive_calls")))
	assert.Equal(t, 70.0, testutil.ToFloat64(s.sortOps.WithLabelValues(sorting.RadixSortName, "classifications")))
	assert.Equal(t, 7.0, testutil.ToFloat64(s.sortOps.WithLabelValues(sorting.RadixSortName, "passes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.sortErrors.WithLabelValues(sorting.RadixSortName)))
	assert.Equal(t, 2, testutil.CollectAndCount(s.sortDuration))
}

func TestRecordSearchAndWins(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewStats(reg, "test")

	s.RecordSearch(true, 3)
	s.RecordSearch(false, 4)
	s.RecordSearch(false, 4)
	s.RecordWin("query", sorting.MergeSortName)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.searches.WithLabelValues("found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.searches.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.wins.WithLabelValues("query", sorting.MergeSortName)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_search_total")
	assert.Contains(t, names, "test_wins_total")
}

func TestNilStatsIsNoop(t *testing.T) {
	var s *Stats
	assert.NotPanics(t, func() {
		s.RecordSort(sorting.SortMetrics{Algorithm: sorting.MergeSortName})
		s.RecordSortError(sorting.MergeSortName)
		s.RecordSearch(true, 1)
		s.RecordWin("benchmark", sorting.RadixSortName)
	})
}
