package binning

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewEstimatorRejectsNegativeLevels(t *testing.T) {
	if _, err := NewEstimator(-1); !errors.Is(err, ErrInvalidLevels) {
		t.Fatalf("expected ErrInvalidLevels, got %v", err)
	}
	if _, err := NewEstimatorWithOffset(8, -1); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestEmptyEstimator(t *testing.T) {
	est, err := NewEstimator(8)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	if est.IsFull() {
		t.Fatal("empty estimator reports full")
	}
	if _, err := est.Mean(); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	if _, err := est.Error(); !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
}

func TestErrorLevelRequiresEnoughLevels(t *testing.T) {
	est, err := NewEstimator(4)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	if _, err := est.ErrorLevel(); !errors.Is(err, ErrErrorLevelUnavailable) {
		t.Fatalf("expected ErrErrorLevelUnavailable, got %v", err)
	}

	est, err = NewEstimator(10)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	level, err := est.ErrorLevel()
	if err != nil {
		t.Fatalf("error level: %v", err)
	}
	if level != 10-DefaultErrorLevelOffset {
		t.Fatalf("error level = %d, want %d", level, 10-DefaultErrorLevelOffset)
	}
}

func TestFullnessBoundary(t *testing.T) {
	const levels = 5
	est, err := NewEstimator(levels)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	total := 1 << levels
	for i := 0; i < total-1; i++ {
		est.Add(float64(i))
		if est.IsFull() {
			t.Fatalf("full after %d of %d samples", i+1, total)
		}
	}
	est.Add(0)
	if !est.IsFull() {
		t.Fatalf("not full after %d samples", total)
	}
	est.Add(0)
	if !est.IsFull() {
		t.Fatal("fullness did not persist past 2^L samples")
	}
}

func TestLevelCounts(t *testing.T) {
	const levels = 6
	est, err := NewEstimator(levels)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	rng := rand.New(rand.NewSource(17))
	const n = 53 // deliberately not a power of two
	for i := 0; i < n; i++ {
		est.Add(rng.Float64())
	}
	for level := 0; level <= levels; level++ {
		want := int64(n >> uint(level))
		if got := est.Count(level); got != want {
			t.Fatalf("level %d count = %d, want %d", level, got, want)
		}
	}
	if est.Count(-1) != 0 || est.Count(levels+1) != 0 {
		t.Fatal("out-of-range counts should be zero")
	}
}

func TestConstantStream(t *testing.T) {
	const levels = 8
	const value = 3.5
	est, err := NewEstimator(levels)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	for i := 0; i < 1<<levels; i++ {
		est.Add(value)
	}

	mean, err := est.Mean()
	if err != nil {
		t.Fatalf("mean: %v", err)
	}
	if mean != value {
		t.Fatalf("mean = %g, want exactly %g", mean, value)
	}

	for level := 0; level <= levels; level++ {
		if est.Count(level) < 2 {
			continue
		}
		se, err := est.StandardErrorAt(level)
		if err != nil {
			t.Fatalf("standard error at level %d: %v", level, err)
		}
		if se != 0 {
			t.Fatalf("level %d error = %g for a constant stream, want exactly 0", level, se)
		}
	}

	// A zero naive error makes the correlation time undefined rather
	// than NaN.
	if _, err := est.CorrelationTime(); !errors.Is(err, ErrDegenerateStatistics) {
		t.Fatalf("expected ErrDegenerateStatistics, got %v", err)
	}
}

func TestIndependentSamples(t *testing.T) {
	const levels = 14
	est, err := NewEstimator(levels)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	n := 1 << levels
	for i := 0; i < n; i++ {
		est.Add(rng.NormFloat64())
	}
	if !est.IsFull() {
		t.Fatal("estimator should be full")
	}

	mean, err := est.Mean()
	if err != nil {
		t.Fatalf("mean: %v", err)
	}
	if math.Abs(mean) > 0.05 {
		t.Fatalf("mean of %d standard normals = %g, want ~0", n, mean)
	}

	se, err := est.Error()
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	ideal := 1 / math.Sqrt(float64(n))
	if se < 0.6*ideal || se > 1.5*ideal {
		t.Fatalf("standard error = %g, want near %g", se, ideal)
	}

	tau, err := est.CorrelationTime()
	if err != nil {
		t.Fatalf("correlation time: %v", err)
	}
	if math.Abs(tau) > 0.5 {
		t.Fatalf("correlation time = %g for independent samples, want ~0", tau)
	}
}

func TestDuplicatedSamplesShowCorrelation(t *testing.T) {
	// Feeding every draw twice produces a stream with a known
	// integrated autocorrelation time of 1/2.
	const levels = 14
	est, err := NewEstimator(levels)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	rng := rand.New(rand.NewSource(43))
	for i := 0; i < 1<<(levels-1); i++ {
		v := rng.NormFloat64()
		est.Add(v)
		est.Add(v)
	}
	if !est.IsFull() {
		t.Fatal("estimator should be full")
	}

	tau, err := est.CorrelationTime()
	if err != nil {
		t.Fatalf("correlation time: %v", err)
	}
	if tau < 0.05 || tau > 1.5 {
		t.Fatalf("correlation time = %g for pair-duplicated samples, want ~0.5", tau)
	}
}

func TestStandardErrorAtRange(t *testing.T) {
	est, err := NewEstimator(4)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	est.Add(1)
	est.Add(2)
	if _, err := est.StandardErrorAt(-1); !errors.Is(err, ErrLevelOutOfRange) {
		t.Fatalf("expected ErrLevelOutOfRange, got %v", err)
	}
	if _, err := est.StandardErrorAt(5); !errors.Is(err, ErrLevelOutOfRange) {
		t.Fatalf("expected ErrLevelOutOfRange, got %v", err)
	}
	if _, err := est.StandardErrorAt(1); !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples at sparse level, got %v", err)
	}
	se, err := est.StandardErrorAt(0)
	if err != nil {
		t.Fatalf("standard error: %v", err)
	}
	// Two samples 1 and 2: variance term 0.5, count term 2*1.
	if want := math.Sqrt(0.5 / 2); math.Abs(se-want) > 1e-12 {
		t.Fatalf("standard error = %g, want %g", se, want)
	}
}
