// Package testutil provides shared test infrastructure for the re-rating simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is a zero-volatility scenario whose outcome is known in closed form.
type GoldenTestCase struct {
	Name              string        `json:"name"`
	InitialIndexLevel float64       `json:"initial_index_level"`
	InitialMultiplier float64       `json:"initial_multiplier"`
	TargetMultiplier  float64       `json:"target_multiplier"`
	TotalYears        int           `json:"total_years"`
	PolicyYears       int           `json:"policy_years"`
	StepsPerYear      int           `json:"steps_per_year"`
	AnnualDrift       float64       `json:"annual_drift"`
	Metrics           GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	TotalSteps  int `json:"total_steps"`
	PolicySteps int `json:"policy_steps"`

	// Deterministic floating-point metrics
	InitialBPS       float64 `json:"initial_bps"`
	FinalFundamental float64 `json:"final_fundamental"`
	FinalBaseline    float64 `json:"final_baseline"`
	FinalPolicy      float64 `json:"final_policy"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ZeroSource is a NormalSource that always returns 0, turning the path into a pure compounding curve.
type ZeroSource struct {
	Draws int
}

// NormFloat64 returns 0 and counts the draw.
func (s *ZeroSource) NormFloat64() float64 {
	s.Draws++
	return 0
}

// SequenceSource replays a fixed list of variates, then returns 0 once exhausted.
type SequenceSource struct {
	Values []float64
	Draws  int
}

// NormFloat64 returns the next value in the sequence.
func (s *SequenceSource) NormFloat64() float64 {
	defer func() { s.Draws++ }()
	if s.Draws < len(s.Values) {
		return s.Values[s.Draws]
	}
	return 0
}
