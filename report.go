package main

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	CurrentResultFormatVersion = "0.1"
)

// latency histogram for the whole run, in microseconds
var histogramMutex sync.Mutex
var totalHistogram = hdrhistogram.New(1, 30_000_000, 3)

func resetHistogram() {
	histogramMutex.Lock()
	totalHistogram.Reset()
	histogramMutex.Unlock()
}

// one DataPoint per reporting period, sampled by the progress ticker
var timeSeriesMutex sync.Mutex
var timeSeries []DataPoint

func resetTimeSeries() {
	timeSeriesMutex.Lock()
	timeSeries = nil
	timeSeriesMutex.Unlock()
}

func appendDataPoint(ts time.Time, opsRate, p50 float64) {
	p := NewDataPoint(ts.Unix())
	p.AddValue("commandRate", opsRate)
	p.AddValue("q50", p50)
	timeSeriesMutex.Lock()
	timeSeries = append(timeSeries, *p)
	timeSeriesMutex.Unlock()
}

// GetTimeSeriesMap returns the per-period samples collected during the run,
// sorted by timestamp
func GetTimeSeriesMap() map[string]interface{} {
	timeSeriesMutex.Lock()
	points := make([]DataPoint, len(timeSeries))
	copy(points, timeSeries)
	timeSeriesMutex.Unlock()

	sort.Sort(ByTimestamp(points))
	return map[string]interface{}{"allCommands": points}
}

func recordLatency(took time.Duration) {
	v := took.Microseconds()
	if v < 1 {
		v = 1
	}
	histogramMutex.Lock()
	totalHistogram.RecordValue(v)
	histogramMutex.Unlock()
}

func GetOverallRatesMap(took time.Duration) map[string]interface{} {
	configs := map[string]interface{}{}
	overallOpsRate := calculateRateMetrics(atomic.LoadUint64(&totalOps), 0, took)
	configs["overallOpsRate"] = overallOpsRate
	return configs
}

// generateQuantileMap returns the histogram's op count and its quantiles in
// milliseconds
func generateQuantileMap(hist *hdrhistogram.Histogram) (int64, map[string]float64) {
	ops := hist.TotalCount()
	q0 := 0.0
	q50 := 0.0
	q95 := 0.0
	q99 := 0.0
	q999 := 0.0
	q100 := 0.0
	if ops > 0 {
		q0 = float64(hist.ValueAtQuantile(0.0)) / 10e2
		q50 = float64(hist.ValueAtQuantile(50.0)) / 10e2
		q95 = float64(hist.ValueAtQuantile(95.0)) / 10e2
		q99 = float64(hist.ValueAtQuantile(99.0)) / 10e2
		q999 = float64(hist.ValueAtQuantile(99.90)) / 10e2
		q100 = float64(hist.ValueAtQuantile(100.0)) / 10e2
	}

	mp := map[string]float64{"q0": q0, "q50": q50, "q95": q95, "q99": q99, "q999": q999, "q100": q100}
	return ops, mp
}

func GetOverallQuantiles() map[string]interface{} {
	configs := map[string]interface{}{}
	histogramMutex.Lock()
	_, all := generateQuantileMap(totalHistogram)
	histogramMutex.Unlock()
	configs["allCommands"] = all
	return configs
}

func calculateRateMetrics(current, prev uint64, took time.Duration) (rate float64) {
	rate = float64(current-prev) / float64(took.Seconds())
	return
}

// report handles periodic reporting of benchmark progress
func report(period time.Duration, start, end time.Time, stop <-chan struct{}) {
	prevTime := start
	prevTotalOps := uint64(0)
	totalDuration := end.Sub(start)
	totalDurationMs := float64(totalDuration.Milliseconds())

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	fmt.Printf("%26s %7s %25s %25s %25s\n", "Test time", " ", "Command Rate", "Client p50 with RTT(ms)", "Total Commands")
	for {
		select {
		case <-stop:
			fmt.Printf("\n")
			return
		case now := <-ticker.C:
			took := now.Sub(prevTime)
			tookTotal := end.Sub(now)
			currentCount := atomic.LoadUint64(&totalOps)
			completionPercent := (totalDurationMs - float64(tookTotal.Milliseconds())) / totalDurationMs * 100.0
			completionPercentStr := fmt.Sprintf("[%3.1f%%]", completionPercent)

			opsRate := calculateRateMetrics(currentCount, prevTotalOps, took)
			histogramMutex.Lock()
			instantP50 := float64(totalHistogram.ValueAtQuantile(50.0)) / 10e2
			histogramMutex.Unlock()
			appendDataPoint(now, opsRate, instantP50)
			fmt.Printf("%25.0fs %7s %25.2f %25.3f %25d", time.Since(start).Seconds(), completionPercentStr, opsRate, instantP50, currentCount)
			fmt.Printf("\r")
			prevTotalOps = currentCount
			prevTime = now
		}
	}
}
