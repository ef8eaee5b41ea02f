package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"platebench/pkg/common"
	"platebench/pkg/monitor"
	"platebench/pkg/sorting"
)

var (
	ErrInvalidIterations = errors.New("iterations must be positive")
	ErrNoSorters         = errors.New("no sorters configured")
)

// Report is the outcome of one benchmark run. Stats keeps the sorter order.
type Report struct {
	RunID      string
	Elements   int
	Iterations int
	Stats      []AlgorithmStats

	// Winner has the strictly lowest mean time; on a tie the sorter listed
	// first wins. TimeDifference and PercentageFaster compare it with the
	// runner-up.
	Winner           string
	TimeDifference   float64 // milliseconds
	PercentageFaster float64
}

// Stat returns the aggregate for one algorithm, or nil.
func (r *Report) Stat(algorithm string) *AlgorithmStats {
	for i := range r.Stats {
		if r.Stats[i].Algorithm == algorithm {
			return &r.Stats[i]
		}
	}
	return nil
}

type Option func(*Harness)

func WithSorters(sorters ...sorting.Sorter) Option {
	return func(h *Harness) { h.sorters = sorters }
}

func WithKeyField(field string) Option {
	return func(h *Harness) {
		if field != "" {
			h.keyField = field
		}
	}
}

// WithWarmup runs n discarded trials per algorithm before measuring.
func WithWarmup(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.warmup = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithStats(s *monitor.Stats) Option {
	return func(h *Harness) { h.stats = s }
}

type Harness struct {
	sorters  []sorting.Sorter
	keyField string
	warmup   int
	logger   *slog.Logger
	stats    *monitor.Stats
}

// NewHarness defaults to merge sort then radix sort on the plate field.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{
		sorters:  sorting.All(),
		keyField: common.DefaultKeyField,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run sorts iterations deep copies of records with every sorter and
// aggregates the timings. The first failing trial aborts the run and its
// error is returned unchanged.
func (h *Harness) Run(ctx context.Context, records []common.Record, iterations int) (*Report, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if len(h.sorters) == 0 {
		return nil, ErrNoSorters
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Elements:   len(records),
		Iterations: iterations,
	}
	log := h.logger.With("run_id", report.RunID)
	log.Info("benchmark starting", "elements", len(records), "iterations", iterations, "warmup", h.warmup)

	for _, s := range h.sorters {
		for i := 0; i < h.warmup; i++ {
			if _, err := h.trial(ctx, s, records); err != nil {
				return nil, err
			}
		}

		samples := make([]sorting.SortMetrics, 0, iterations)
		for i := 0; i < iterations; i++ {
			m, err := h.trial(ctx, s, records)
			if err != nil {
				return nil, err
			}
			h.stats.RecordSort(m)
			log.Debug("trial", "algorithm", s.Name(), "iteration", i+1, "elapsed", m.Elapsed, "ops", m.PrimaryOps())
			samples = append(samples, m)
		}
		report.Stats = append(report.Stats, summarize(s.Name(), samples))
	}

	pickWinner(report)
	h.stats.RecordWin("benchmark", report.Winner)
	log.Info("benchmark finished",
		"winner", report.Winner,
		"difference_ms", report.TimeDifference,
		"percentage_faster", report.PercentageFaster)
	return report, nil
}

func (h *Harness) trial(ctx context.Context, s sorting.Sorter, records []common.Record) (sorting.SortMetrics, error) {
	if err := ctx.Err(); err != nil {
		return sorting.SortMetrics{}, err
	}
	input := common.CloneRecords(records)
	_, m, err := s.Sort(input, h.keyField)
	if err != nil {
		h.stats.RecordSortError(s.Name())
		return sorting.SortMetrics{}, err
	}
	return m, nil
}

func pickWinner(r *Report) {
	if len(r.Stats) == 0 {
		return
	}
	best := 0
	for i := 1; i < len(r.Stats); i++ {
		if r.Stats[i].MeanTime < r.Stats[best].MeanTime {
			best = i
		}
	}
	r.Winner = r.Stats[best].Algorithm

	runnerUp := -1
	for i := range r.Stats {
		if i == best {
			continue
		}
		if runnerUp < 0 || r.Stats[i].MeanTime < r.Stats[runnerUp].MeanTime {
			runnerUp = i
		}
	}
	if runnerUp < 0 {
		return
	}
	diff, pct := Advantage(r.Stats[best].MeanTime, r.Stats[runnerUp].MeanTime)
	r.TimeDifference = float64(diff.Nanoseconds()) / 1e6
	r.PercentageFaster = pct
}

// Verify sorts independent copies of records with every sorter and reports
// whether all of them produce the same key sequence.
func (h *Harness) Verify(records []common.Record) (bool, error) {
	var want []string
	for i, s := range h.sorters {
		out, _, err := s.Sort(common.CloneRecords(records), h.keyField)
		if err != nil {
			return false, err
		}
		got, err := common.KeysOf(out, h.keyField)
		if err != nil {
			return false, err
		}
		if i == 0 {
			want = got
			continue
		}
		if !slices.Equal(want, got) {
			h.logger.Warn("sorters disagree", "reference", h.sorters[0].Name(), "algorithm", s.Name())
			return false, nil
		}
	}
	return true, nil
}
