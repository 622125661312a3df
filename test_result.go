package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

type DataPoint struct {
	Timestamp   int64              `json:"Timestamp"`
	MultiValues map[string]float64 `json:"MultiValues"`
}

func (p DataPoint) AddValue(s string, value float64) {
	p.MultiValues[s] = value
}

func NewDataPoint(timestamp int64) *DataPoint {
	mp := map[string]float64{}
	return &DataPoint{Timestamp: timestamp, MultiValues: mp}
}

// ByTimestamp implements sort.Interface based on the Timestamp field of the DataPoint.
type ByTimestamp []DataPoint

func (a ByTimestamp) Len() int           { return len(a) }
func (a ByTimestamp) Less(i, j int) bool { return a[i].Timestamp < a[j].Timestamp }
func (a ByTimestamp) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

type TestResult struct {

	// Test Configs
	RunID               string `json:"RunID"`
	Metadata            string `json:"Metadata"`
	ResultFormatVersion string `json:"ResultFormatVersion"`
	Workers             uint   `json:"Workers"`

	// DB Specific Configs
	DBSpecificConfigs map[string]interface{} `json:"DBSpecificConfigs"`

	StartTime      int64 `json:"StartTime"`
	EndTime        int64 `json:"EndTime"`
	DurationMillis int64 `json:"DurationMillis"`

	// Totals
	Totals map[string]interface{} `json:"Totals"`

	// Overall Rates
	OverallRates map[string]interface{} `json:"OverallRates"`

	// Overall Quantiles
	OverallQuantiles map[string]interface{} `json:"OverallQuantiles"`

	// Time-Series
	TimeSeries map[string]interface{} `json:"TimeSeries"`
}

// NewTestResult prepares a result document with a fresh run ID
func NewTestResult(metadata string, workers uint) *TestResult {
	return &TestResult{
		RunID:               uuid.NewString(),
		Metadata:            metadata,
		ResultFormatVersion: CurrentResultFormatVersion,
		Workers:             workers,
		DBSpecificConfigs:   map[string]interface{}{},
		Totals:              map[string]interface{}{},
		OverallRates:        map[string]interface{}{},
		OverallQuantiles:    map[string]interface{}{},
		TimeSeries:          map[string]interface{}{},
	}
}

// FillDurationInfo stamps the start/end times on the result
func (r *TestResult) FillDurationInfo(start, end time.Time) {
	r.StartTime = start.UnixMilli()
	r.EndTime = end.UnixMilli()
	r.DurationMillis = end.Sub(start).Milliseconds()
}

func saveJSONResult(result *TestResult, fileName string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}
