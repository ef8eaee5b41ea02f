package benchmark

import (
	"math"
	"time"

	"platebench/pkg/sorting"
)

// AlgorithmStats aggregates a batch of trials for one algorithm.
type AlgorithmStats struct {
	Algorithm string

	MeanTime time.Duration
	StdTime  time.Duration
	MinTime  time.Duration
	MaxTime  time.Duration

	// Ops is SortMetrics.PrimaryOps: comparisons or classifications.
	MeanOps float64
	StdOps  float64
	MinOps  int64
	MaxOps  int64

	Samples []sorting.SortMetrics
}

func (s AlgorithmStats) MeanMillis() float64 {
	return float64(s.MeanTime.Nanoseconds()) / 1e6
}

func summarize(algorithm string, samples []sorting.SortMetrics) AlgorithmStats {
	times := make([]float64, len(samples))
	ops := make([]float64, len(samples))
	for i, m := range samples {
		times[i] = float64(m.Elapsed)
		ops[i] = float64(m.PrimaryOps())
	}

	tMean, tStd, tMin, tMax := describe(times)
	oMean, oStd, oMin, oMax := describe(ops)
	return AlgorithmStats{
		Algorithm: algorithm,
		MeanTime:  time.Duration(math.Round(tMean)),
		StdTime:   time.Duration(math.Round(tStd)),
		MinTime:   time.Duration(tMin),
		MaxTime:   time.Duration(tMax),
		MeanOps:   oMean,
		StdOps:    oStd,
		MinOps:    int64(oMin),
		MaxOps:    int64(oMax),
		Samples:   samples,
	}
}

// describe returns mean, population standard deviation, min and max.
func describe(xs []float64) (mean, std, lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0, 0, 0
	}
	lo, hi = xs[0], xs[0]
	sum := 0.0
	for _, x := range xs {
		sum += x
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	mean = sum / float64(len(xs))

	sq := 0.0
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(xs)))
	return mean, std, lo, hi
}

// Advantage returns the absolute gap between two times and that gap as a
// percentage of the slower one. Both zero yields 0%.
func Advantage(a, b time.Duration) (time.Duration, float64) {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	slower := max(a, b)
	if slower <= 0 {
		return diff, 0
	}
	return diff, float64(diff) / float64(slower) * 100
}
