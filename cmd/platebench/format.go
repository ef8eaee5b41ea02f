package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"platebench/pkg/benchmark"
	"platebench/pkg/common"
	"platebench/pkg/compare"
	"platebench/pkg/dataset"
	"platebench/pkg/sorting"
)

const rule = "---------------------------------------------------"

func ms(d time.Duration) string {
	return fmt.Sprintf("%.4f ms", float64(d.Nanoseconds())/1e6)
}

func printSortMetrics(w io.Writer, m sorting.SortMetrics) {
	fmt.Fprintf(w, "%s: %s records in %.4f ms\n", sorting.DisplayName(m.Algorithm),
		humanize.Comma(int64(m.InputSize)), m.ElapsedMillis())
	if m.Algorithm == sorting.RadixSortName {
		fmt.Fprintf(w, "  operations=%s passes=%d buckets=%d\n",
			humanize.Comma(m.Operations), m.Passes, m.BucketsUsed)
		return
	}
	fmt.Fprintf(w, "  comparisons=%s recursive_calls=%s\n",
		humanize.Comma(m.Comparisons), humanize.Comma(m.RecursiveCalls))
}

func printComparison(w io.Writer, res *compare.Result) {
	fmt.Fprintf(w, "Query %q (%s)\n", res.TargetKey, res.ID)
	fmt.Fprintln(w, rule)
	if res.Found {
		fmt.Fprintf(w, "FOUND: %s\n", formatRecord(res.Record))
	} else {
		fmt.Fprintln(w, "NOT FOUND")
	}
	if !res.Consistent {
		fmt.Fprintln(w, "WARNING: pipelines disagree on this query")
	}
	for _, p := range []compare.PipelineResult{res.MergeSort, res.RadixSort} {
		fmt.Fprintf(w, "%-11s sort %s + search %s = %s  (%s ops, %d search cmp)\n",
			sorting.DisplayName(p.Algorithm)+":", ms(p.SortTime), ms(p.SearchTime), ms(p.TotalTime),
			humanize.Comma(p.TotalComparisons), p.SearchComparisons)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Winner: %s by %s (%.2f%% faster)\n",
		sorting.DisplayName(res.Winner), ms(res.TimeDifference), res.PercentageFaster)
}

func printReport(w io.Writer, r *benchmark.Report) {
	fmt.Fprintf(w, "Benchmark %s: %s records x %d iterations\n",
		r.RunID, humanize.Comma(int64(r.Elements)), r.Iterations)
	fmt.Fprintln(w, rule)
	for _, s := range r.Stats {
		fmt.Fprintf(w, "%s\n", sorting.DisplayName(s.Algorithm))
		fmt.Fprintf(w, "  time  mean %s  std %s  min %s  max %s\n",
			ms(s.MeanTime), ms(s.StdTime), ms(s.MinTime), ms(s.MaxTime))
		fmt.Fprintf(w, "  ops   mean %s  std %.1f  min %s  max %s\n",
			humanize.Commaf(s.MeanOps), s.StdOps, humanize.Comma(s.MinOps), humanize.Comma(s.MaxOps))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Winner: %s by %.4f ms (%.2f%% faster)\n",
		sorting.DisplayName(r.Winner), r.TimeDifference, r.PercentageFaster)
}

func printLookup(w io.Writer, store *dataset.Store, plate string) {
	rec, ok := store.Lookup(plate)
	if !ok {
		fmt.Fprintf(w, "%s: NOT FOUND\n", plate)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", plate, formatRecord(rec))
}

func printDatasetStats(w io.Writer, st dataset.Stats) {
	fmt.Fprintf(w, "Records:       %s\n", humanize.Comma(int64(st.Total)))
	fmt.Fprintf(w, "Unique plates: %s\n", humanize.Comma(int64(st.UniquePlates)))
	printCounts(w, "Status", st.ByStatus)
	printCounts(w, "Camera location", st.ByLocation)
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "  %-20s %s\n", k, humanize.Comma(int64(counts[k])))
	}
}

// formatRecord prints fields in name order so output is stable.
func formatRecord(rec common.Record) string {
	parts := make([]string, 0, len(rec))
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, rec[k]))
	}
	return strings.Join(parts, " ")
}
