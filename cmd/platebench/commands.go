package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"platebench/pkg/benchmark"
	"platebench/pkg/compare"
	"platebench/pkg/dataset"
	"platebench/pkg/sorting"
	"platebench/pkg/storage"
)

func newGenerateCmd(a *app) *cobra.Command {
	var appendRows bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic plate dataset into the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Dataset.DBPath
			if path == "" {
				return fmt.Errorf("generate needs --db or dataset.db_path")
			}
			backend, err := storage.NewSQLiteBackend(path, a.cfg.Engine.KeyField)
			if err != nil {
				return err
			}
			defer backend.Close()

			if !appendRows {
				if err := backend.Truncate(); err != nil {
					return err
				}
			}
			records := dataset.Generate(a.cfg.Dataset.Size, a.cfg.Dataset.Seed, a.cfg.Engine.KeyField)
			if err := backend.BatchWrite(records); err != nil {
				return err
			}
			total, err := backend.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s records to %s (%s total)\n",
				humanize.Comma(int64(len(records))), path, humanize.Comma(int64(total)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendRows, "append", false, "keep existing rows")
	return cmd
}

func newSortCmd(a *app) *cobra.Command {
	var algorithm string
	var show int
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort the dataset with one or both algorithms and print metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sorters := sorting.All()
			if algorithm != "all" {
				s, err := sorting.ByName(algorithm)
				if err != nil {
					return err
				}
				sorters = []sorting.Sorter{s}
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range sorters {
				sorted, m, err := s.Sort(store.Records(), store.KeyField())
				if err != nil {
					a.stats.RecordSortError(s.Name())
					return err
				}
				a.stats.RecordSort(m)
				printSortMetrics(out, m)
				for i := 0; i < show && i < len(sorted); i++ {
					fmt.Fprintf(out, "  %4d  %v\n", i+1, sorted[i][store.KeyField()])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "all", "merge_sort, radix_sort or all")
	cmd.Flags().IntVar(&show, "show", 0, "print the first N sorted plates")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var direct bool
	cmd := &cobra.Command{
		Use:   "search <plate>",
		Short: "Sort with both algorithms, binary-search the plate and compare",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			if direct {
				printLookup(cmd.OutOrStdout(), store, args[0])
				return nil
			}
			res, err := a.service().Compare(cmd.Context(), store.Records(), args[0])
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "use the dataset index instead of the sort pipelines")
	return cmd
}

func newBenchmarkCmd(a *app) *cobra.Command {
	var iterations, warmup int
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Run both sorters repeatedly and report timing statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("iterations") {
				iterations = a.cfg.Benchmark.Iterations
			}
			if !cmd.Flags().Changed("warmup") {
				warmup = a.cfg.Benchmark.Warmup
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			h := benchmark.NewHarness(
				benchmark.WithKeyField(store.KeyField()),
				benchmark.WithWarmup(warmup),
				benchmark.WithLogger(a.logger),
				benchmark.WithStats(a.stats),
			)
			report, err := h.Run(cmd.Context(), store.Records(), iterations)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "measured trials per algorithm (default benchmark.iterations)")
	cmd.Flags().IntVar(&warmup, "warmup", 0, "discarded trials per algorithm (default benchmark.warmup)")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that both sorters produce the same key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			ok, err := benchmark.NewHarness(benchmark.WithKeyField(store.KeyField())).Verify(store.Records())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("sorters disagree on %s records", humanize.Comma(int64(store.Len())))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: merge sort and radix sort agree on %s records\n",
				humanize.Comma(int64(store.Len())))
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dataset statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			printDatasetStats(cmd.OutOrStdout(), store.Stats())
			return nil
		},
	}
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive plate search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			sh := &shell{
				ctx:   cmd.Context(),
				in:    cmd.InOrStdin(),
				out:   cmd.OutOrStdout(),
				store: store,
				svc:   a.service(),
			}
			sh.interactive = sh.in == os.Stdin
			return sh.run()
		},
	}
}

func (a *app) service() *compare.Service {
	return compare.NewService(
		compare.WithKeyField(a.cfg.Engine.KeyField),
		compare.WithParallel(a.cfg.Benchmark.Parallel),
		compare.WithLogger(a.logger),
		compare.WithStats(a.stats),
	)
}
