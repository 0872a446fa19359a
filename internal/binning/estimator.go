// Package binning implements the Flyvbjerg-Petersen binning analysis
// for streams of serially correlated Monte Carlo samples. Adjacent
// samples are repeatedly paired and averaged into higher levels; the
// standard error at a high enough level converges to the true error of
// the mean, and the ratio to the naive level-0 error yields the
// integrated autocorrelation time.
package binning

import (
	"errors"
	"fmt"
	"math"
)

// DefaultErrorLevelOffset is how many levels below the top the error
// estimate is read, so that the chosen level still holds at least
// 2^offset (= 64) binned values. Empirical constant from the source
// material.
const DefaultErrorLevelOffset = 6

var (
	ErrInvalidLevels         = errors.New("level count must be >= 0")
	ErrLevelOutOfRange       = errors.New("level out of range")
	ErrNoSamples             = errors.New("no samples recorded")
	ErrInsufficientSamples   = errors.New("level holds fewer than two samples")
	ErrErrorLevelUnavailable = errors.New("level count is below the error-level offset")
	ErrDegenerateStatistics  = errors.New("level-0 error is zero, correlation time undefined")
)

// Estimator accumulates scalar samples into binning levels 0..L.
// It is full once 2^L raw samples have been added; Error and
// CorrelationTime are meaningful only then.
type Estimator struct {
	levels      int
	errorOffset int

	counts  []int64
	sums    []float64
	sumSqs  []float64
	pending []float64
}

// NewEstimator builds an estimator with the given level count L and
// the default error-level offset. Error and CorrelationTime require
// L >= DefaultErrorLevelOffset.
func NewEstimator(levels int) (*Estimator, error) {
	return NewEstimatorWithOffset(levels, DefaultErrorLevelOffset)
}

// NewEstimatorWithOffset overrides the error-level offset. The offset
// is a design constant; nothing in this repository changes it, but a
// caller with shorter streams may.
func NewEstimatorWithOffset(levels, errorOffset int) (*Estimator, error) {
	if levels < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevels, levels)
	}
	if errorOffset < 0 {
		return nil, fmt.Errorf("error-level offset must be >= 0: got %d", errorOffset)
	}
	return &Estimator{
		levels:      levels,
		errorOffset: errorOffset,
		counts:      make([]int64, levels+1),
		sums:        make([]float64, levels+1),
		sumSqs:      make([]float64, levels+1),
		pending:     make([]float64, levels+1),
	}, nil
}

func (e *Estimator) Levels() int {
	return e.levels
}

// Add records one raw sample at level 0 and cascades pairwise means
// upward: whenever the running count at a level becomes even, the new
// value and the stored unpaired one are averaged into the next level.
// After N raw additions level k holds floor(N/2^k) values.
func (e *Estimator) Add(value float64) {
	for level := 0; level <= e.levels; level++ {
		e.counts[level]++
		e.sums[level] += value
		e.sumSqs[level] += value * value

		if e.counts[level]%2 != 0 {
			e.pending[level] = value
			return
		}
		value = (value + e.pending[level]) / 2
	}
}

// IsFull reports whether exactly 2^L raw samples (or more) have been
// added.
func (e *Estimator) IsFull() bool {
	return e.counts[0] >= 1<<uint(e.levels)
}

// Count returns the number of binned values accumulated at a level.
func (e *Estimator) Count(level int) int64 {
	if level < 0 || level > e.levels {
		return 0
	}
	return e.counts[level]
}

// Mean returns the arithmetic mean of the raw samples.
func (e *Estimator) Mean() (float64, error) {
	if e.counts[0] == 0 {
		return 0, ErrNoSamples
	}
	return e.sums[0] / float64(e.counts[0]), nil
}

// StandardErrorAt returns the standard error of the mean computed from
// the binned values at the given level:
//
//	sqrt((sumSq - sum^2/count) / (count*(count-1)))
//
// The variance term is clamped at zero so a constant stream reports an
// exact zero instead of NaN from negative floating residue.
func (e *Estimator) StandardErrorAt(level int) (float64, error) {
	if level < 0 || level > e.levels {
		return 0, fmt.Errorf("%w: level %d of %d", ErrLevelOutOfRange, level, e.levels)
	}
	count := float64(e.counts[level])
	if e.counts[level] < 2 {
		return 0, fmt.Errorf("%w: level %d holds %d", ErrInsufficientSamples, level, e.counts[level])
	}
	variance := e.sumSqs[level] - e.sums[level]*e.sums[level]/count
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / (count * (count - 1))), nil
}

// ErrorLevel returns the level the corrected error is read at.
func (e *Estimator) ErrorLevel() (int, error) {
	if e.levels < e.errorOffset {
		return 0, fmt.Errorf("%w: levels %d, offset %d", ErrErrorLevelUnavailable, e.levels, e.errorOffset)
	}
	return e.levels - e.errorOffset, nil
}

// Error returns the best estimate of the statistical error on the
// mean, read at the error level.
func (e *Estimator) Error() (float64, error) {
	level, err := e.ErrorLevel()
	if err != nil {
		return 0, err
	}
	return e.StandardErrorAt(level)
}

// CorrelationTime returns the integrated autocorrelation time in units
// of raw samples, (r^2 - 1)/2 with r the ratio of the corrected error
// to the naive level-0 error. A ratio near one means the raw samples
// are effectively independent.
func (e *Estimator) CorrelationTime() (float64, error) {
	best, err := e.Error()
	if err != nil {
		return 0, err
	}
	naive, err := e.StandardErrorAt(0)
	if err != nil {
		return 0, err
	}
	if naive == 0 {
		return 0, ErrDegenerateStatistics
	}
	ratio := best / naive
	return (ratio*ratio - 1) / 2, nil
}
