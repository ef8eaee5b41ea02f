package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"platebench/pkg/sorting"
)

const DefaultNamespace = "platebench"

// Stats 记录排序/查找/胜负的 Prometheus 指标。nil *Stats 的所有方法都是空操作
type Stats struct {
	sortDuration *prometheus.HistogramVec
	sortOps      *prometheus.CounterVec
	sortErrors   *prometheus.CounterVec
	searches     *prometheus.CounterVec
	searchCmp    prometheus.Histogram
	wins         *prometheus.CounterVec
}

// NewStats builds the collectors and registers them on reg.
func NewStats(reg prometheus.Registerer, namespace string) *Stats {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &Stats{
		sortDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "duration_seconds",
			Help:      "Wall clock time of a single sort by algorithm",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"algorithm"}),
		sortOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "operations_total",
			Help:      "Primitive operations performed by sorts, by algorithm and kind",
		}, []string{"algorithm", "kind"}),
		sortErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "errors_total",
			Help:      "Sorts aborted because a record had no usable key",
		}, []string{"algorithm"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Binary searches by outcome",
		}, []string{"outcome"}),
		searchCmp: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "comparisons",
			Help:      "Key comparisons per binary search",
			Buckets:   prometheus.LinearBuckets(1, 2, 12),
		}),
		wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_total",
			Help:      "Head to head wins by scope (benchmark, query) and algorithm",
		}, []string{"scope", "algorithm"}),
	}
	if reg != nil {
		reg.MustRegister(s.sortDuration, s.sortOps, s.sortErrors, s.searches, s.searchCmp, s.wins)
	}
	return s
}

func (s *Stats) RecordSort(m sorting.SortMetrics) {
	if s == nil {
		return
	}
	s.sortDuration.WithLabelValues(m.Algorithm).Observe(m.Elapsed.Seconds())
	switch m.Algorithm {
	case sorting.RadixSortName:
		s.sortOps.WithLabelValues(m.Algorithm, "classifications").Add(float64(m.Operations))
		s.sortOps.WithLabelValues(m.Algorithm, "passes").Add(float64(m.Passes))
	default:
		s.sortOps.WithLabelValues(m.Algorithm, "comparisons").Add(float64(m.Comparisons))
		s.sortOps.WithLabelValues(m.Algorithm, "recursive_calls").Add(float64(m.RecursiveCalls))
	}
}

func (s *Stats) RecordSortError(algorithm string) {
	if s == nil {
		return
	}
	s.sortErrors.WithLabelValues(algorithm).Inc()
}

func (s *Stats) RecordSearch(found bool, comparisons int) {
	if s == nil {
		return
	}
	outcome := "not_found"
	if found {
		outcome = "found"
	}
	s.searches.WithLabelValues(outcome).Inc()
	s.searchCmp.Observe(float64(comparisons))
}

func (s *Stats) RecordWin(scope, algorithm string) {
	if s == nil {
		return
	}
	s.wins.WithLabelValues(scope, algorithm).Inc()
}
