package compare

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"platebench/pkg/benchmark"
	"platebench/pkg/common"
	"platebench/pkg/keys"
	"platebench/pkg/monitor"
	"platebench/pkg/search"
	"platebench/pkg/sorting"
)

// PipelineResult is one "sort, then binary search" run.
type PipelineResult struct {
	Algorithm string
	Found     bool
	Record    common.Record

	SortTime   time.Duration
	SearchTime time.Duration
	TotalTime  time.Duration

	Sort              sorting.SortMetrics
	SearchComparisons int
	// TotalComparisons adds the sort's primary operation count to the
	// search comparisons.
	TotalComparisons int64
}

// Result 同一查询在两条流水线上的对比结果
type Result struct {
	ID        string
	TargetKey string

	Found  bool
	Record common.Record
	// Consistent is false when the pipelines disagree on the match, which
	// means one of the sorters is broken.
	Consistent bool

	MergeSort PipelineResult
	RadixSort PipelineResult

	// Winner has the lower total time; merge sort wins a tie.
	Winner           string
	TimeDifference   time.Duration
	PercentageFaster float64
}

type Option func(*Service)

// WithSorters replaces the two pipelines' sorters. Either may be nil to
// keep the default.
func WithSorters(merge, radix sorting.Sorter) Option {
	return func(s *Service) {
		if merge != nil {
			s.merge = merge
		}
		if radix != nil {
			s.radix = radix
		}
	}
}

func WithKeyField(field string) Option {
	return func(s *Service) {
		if field != "" {
			s.keyField = field
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithStats(st *monitor.Stats) Option {
	return func(s *Service) { s.stats = st }
}

// WithParallel runs both pipelines on their own goroutines. Each works on
// its own copy of the records so nothing is shared.
func WithParallel(on bool) Option {
	return func(s *Service) { s.parallel = on }
}

type Service struct {
	merge    sorting.Sorter
	radix    sorting.Sorter
	keyField string
	logger   *slog.Logger
	stats    *monitor.Stats
	parallel bool
}

func NewService(opts ...Option) *Service {
	s := &Service{
		merge:    sorting.NewMergeSorter(),
		radix:    sorting.NewRadixSorter(),
		keyField: common.DefaultKeyField,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare runs merge sort + binary search and radix sort + binary search
// for target over independent copies of records. Sorter failures are
// returned as is.
func (s *Service) Compare(ctx context.Context, records []common.Record, target string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mergeRes, radixRes PipelineResult
	if s.parallel {
		// a failing pipeline cancels gctx so the other skips its search
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			mergeRes, err = s.pipeline(gctx, s.merge, common.CloneRecords(records), target)
			return err
		})
		g.Go(func() error {
			var err error
			radixRes, err = s.pipeline(gctx, s.radix, common.CloneRecords(records), target)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if mergeRes, err = s.pipeline(ctx, s.merge, common.CloneRecords(records), target); err != nil {
			return nil, err
		}
		if radixRes, err = s.pipeline(ctx, s.radix, common.CloneRecords(records), target); err != nil {
			return nil, err
		}
	}

	res := &Result{
		ID:         uuid.NewString(),
		TargetKey:  target,
		Found:      mergeRes.Found,
		Record:     mergeRes.Record,
		Consistent: s.agree(mergeRes, radixRes),
		MergeSort:  mergeRes,
		RadixSort:  radixRes,
	}
	res.Winner, res.TimeDifference, res.PercentageFaster = pickWinner(mergeRes, radixRes)

	s.stats.RecordWin("query", res.Winner)
	log := s.logger.With("comparison_id", res.ID, "target", target)
	if !res.Consistent {
		log.Error("pipelines disagree", "merge_found", mergeRes.Found, "radix_found", radixRes.Found)
	}
	log.Info("comparative search",
		"found", res.Found,
		"merge_total", mergeRes.TotalTime,
		"radix_total", radixRes.TotalTime,
		"winner", res.Winner,
		"percentage_faster", res.PercentageFaster)
	return res, nil
}

// pickWinner compares total times. The radix pipeline must be strictly
// faster to win; equal totals go to merge sort.
func pickWinner(merge, radix PipelineResult) (string, time.Duration, float64) {
	winner := merge.Algorithm
	if radix.TotalTime < merge.TotalTime {
		winner = radix.Algorithm
	}
	diff, pct := benchmark.Advantage(merge.TotalTime, radix.TotalTime)
	return winner, diff, pct
}

func (s *Service) pipeline(ctx context.Context, sorter sorting.Sorter, records []common.Record, target string) (PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return PipelineResult{}, err
	}
	sortStart := time.Now()
	sorted, m, err := sorter.Sort(records, s.keyField)
	sortTime := time.Since(sortStart)
	if err != nil {
		s.stats.RecordSortError(sorter.Name())
		return PipelineResult{}, err
	}
	s.stats.RecordSort(m)
	if err := ctx.Err(); err != nil {
		return PipelineResult{}, err
	}

	searchStart := time.Now()
	outcome := search.NewBinarySearcher(s.keyField).Search(sorted, target)
	searchTime := time.Since(searchStart)
	s.stats.RecordSearch(outcome.Found, outcome.Comparisons)

	return PipelineResult{
		Algorithm:         sorter.Name(),
		Found:             outcome.Found,
		Record:            outcome.Record,
		SortTime:          sortTime,
		SearchTime:        searchTime,
		TotalTime:         sortTime + searchTime,
		Sort:              m,
		SearchComparisons: outcome.Comparisons,
		TotalComparisons:  m.PrimaryOps() + int64(outcome.Comparisons),
	}, nil
}

func (s *Service) agree(a, b PipelineResult) bool {
	if a.Found != b.Found {
		return false
	}
	if !a.Found {
		return true
	}
	ka, errA := common.KeyOf(a.Record, s.keyField)
	kb, errB := common.KeyOf(b.Record, s.keyField)
	return errA == nil && errB == nil && keys.Equal(ka, kb)
}
