package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pgsearch/PGSearchBenchmark/index"
	"github.com/pgsearch/PGSearchBenchmark/query"
)

// the total time it took to run the functions, to measure average latency, in nanoseconds
var totalTime uint64
var totalOps uint64

// SearchBenchmark returns a closure of a function for the benchmarker to run,
// rotating over a set of queries against a given index
func SearchBenchmark(ctx context.Context, queries []string, kind query.Kind, idx index.Index) func() error {
	var counter uint64
	return func() error {
		n := atomic.AddUint64(&counter, 1) - 1
		q := query.NewQuery("", queries[n%uint64(len(queries))]).Limit(0, 5).SetKind(kind)
		_, _, err := idx.Search(ctx, *q)
		return err
	}
}

// ExplainBenchmark is like SearchBenchmark but exercises plan capture rather
// than result fetching. Mostly useful for sanity checking a strategy.
func ExplainBenchmark(ctx context.Context, queries []string, kind query.Kind, idx index.Index) func() error {
	var counter uint64
	return func() error {
		n := atomic.AddUint64(&counter, 1) - 1
		q := query.NewQuery("", queries[n%uint64(len(queries))]).Limit(0, 5).SetKind(kind)
		_, err := idx.Explain(ctx, *q)
		return err
	}
}

// Benchmark runs a given function f under the given concurrency for the given
// duration, and outputs the throughput and latency of the function.
//
// It receives metadata like the engine we are running and the title of the
// specific benchmark, and writes these along with the results to a CSV file
// given by outfile.
//
// If outfile is "-" we write the result to stdout
func Benchmark(concurrency int, duration time.Duration, engine, title string, outfile string, reportingPeriod time.Duration, f func() error) error {

	var out io.WriteCloser
	if outfile == "-" {
		out = os.Stdout
	} else {
		var err error
		out, err = os.OpenFile(outfile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0665)
		if err != nil {
			return fmt.Errorf("open %s: %w", outfile, err)
		}
		defer out.Close()
	}

	atomic.StoreUint64(&totalOps, 0)
	atomic.StoreUint64(&totalTime, 0)
	resetHistogram()
	resetTimeSeries()

	startTime := time.Now()
	endTime := startTime.Add(duration)
	wg := sync.WaitGroup{}

	if reportingPeriod.Nanoseconds() > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go report(reportingPeriod, startTime, endTime, stop)
	}

	var once sync.Once
	var benchErr error
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(endTime) {

				tst := time.Now()

				if err := f(); err != nil {
					once.Do(func() { benchErr = err })
					return
				}
				took := time.Since(tst)

				// update the total requests performed and total time
				atomic.AddUint64(&totalOps, 1)
				atomic.AddUint64(&totalTime, uint64(took))
				recordLatency(took)
			}
		}()
	}
	wg.Wait()

	if benchErr != nil {
		return benchErr
	}

	avgLatency := (float64(atomic.LoadUint64(&totalTime)) / float64(atomic.LoadUint64(&totalOps))) / float64(time.Millisecond)
	rate := float64(atomic.LoadUint64(&totalOps)) / (float64(time.Since(startTime)) / float64(time.Second))

	// Output the results to CSV
	w := csv.NewWriter(out)

	if err := w.Write([]string{engine, title,
		fmt.Sprintf("%d", concurrency),
		fmt.Sprintf("%.02f", rate),
		fmt.Sprintf("%.02f", avgLatency)}); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	w.Flush()
	return w.Error()
}
