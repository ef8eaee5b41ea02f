// Package benchmark runs repeated sorting trials over the same record set
// and compares the algorithms by their mean elapsed time.
//
// Every trial sorts a fresh deep copy of the caller's records, so each
// algorithm sees the same unmodified input in the same order and the
// caller's slice is never touched. A failing trial aborts the whole run.
//
// Usage:
//
//	h := benchmark.NewHarness(benchmark.WithWarmup(2))
//	report, err := h.Run(ctx, records, 10)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s wins by %.2f%%\n", report.Winner, report.PercentageFaster)
package benchmark
