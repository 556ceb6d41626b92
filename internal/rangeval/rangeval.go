// Package rangeval implements the Long/Double range primitives (spec.md
// §4.1, component C1): construction with inclusive/exclusive normalisation
// and rejection of ranges that end up matching nothing.
package rangeval

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyRange is returned when a range normalises to min > max, i.e. the
// user-supplied range (after resolving exclusivity) matches nothing.
var ErrEmptyRange = errors.New("range matches nothing")

// ErrNaN is returned when a float/double bound is NaN.
var ErrNaN = errors.New("range bound is NaN")

// ErrOverflow is returned when exclusive-bound normalisation of an integer
// range would overflow (e.g. an exclusive min of math.MaxInt64).
var ErrOverflow = errors.New("range bound normalisation overflows")

// LongRange is an inclusive [Min, Max] range over int64 values, normalised
// from possibly-exclusive user input.
type LongRange struct {
	Label string
	Min   int64
	Max   int64
}

// NewLongRange normalises (min, minInclusive, max, maxInclusive) into an
// inclusive LongRange. An exclusive min is rewritten to min+1; an exclusive
// max is rewritten to max-1. Returns ErrOverflow if that rewrite would
// overflow, and ErrEmptyRange if, after normalisation, min > max.
func NewLongRange(label string, min int64, minInclusive bool, max int64, maxInclusive bool) (*LongRange, error) {
	if !minInclusive {
		if min == math.MaxInt64 {
			return nil, fmt.Errorf("%w: exclusive min is MaxInt64", ErrOverflow)
		}
		min++
	}
	if !maxInclusive {
		if max == math.MinInt64 {
			return nil, fmt.Errorf("%w: exclusive max is MinInt64", ErrOverflow)
		}
		max--
	}
	if min > max {
		return nil, fmt.Errorf("%w: label %q, normalised min %d > max %d", ErrEmptyRange, label, min, max)
	}
	return &LongRange{Label: label, Min: min, Max: max}, nil
}

// Contains reports whether v falls within the inclusive [Min, Max] range.
func (r *LongRange) Contains(v int64) bool {
	return v >= r.Min && v <= r.Max
}

// DoubleRange is an inclusive [Min, Max] range over float64 values,
// normalised from possibly-exclusive user input.
type DoubleRange struct {
	Label string
	Min   float64
	Max   float64
}

// NewDoubleRange normalises (min, minInclusive, max, maxInclusive) into an
// inclusive DoubleRange. NaN bounds are rejected. An exclusive min is
// rewritten to nextUp(min); an exclusive max is rewritten to the next value
// toward negative infinity (nextAfter(max, -Inf)) — see spec.md §9's open
// question on nextDown vs. nextAfter(-Inf); this implementation picks the
// stricter of the two, which coincide except around -0.0 and subnormals.
func NewDoubleRange(label string, min float64, minInclusive bool, max float64, maxInclusive bool) (*DoubleRange, error) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return nil, fmt.Errorf("%w: label %q", ErrNaN, label)
	}
	if !minInclusive {
		min = math.Nextafter(min, math.Inf(1))
	}
	if !maxInclusive {
		max = math.Nextafter(max, math.Inf(-1))
	}
	if min > max {
		return nil, fmt.Errorf("%w: label %q, normalised min %v > max %v", ErrEmptyRange, label, min, max)
	}
	return &DoubleRange{Label: label, Min: min, Max: max}, nil
}

// Contains reports whether v falls within the inclusive [Min, Max] range.
func (r *DoubleRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// NewLongRangeND validates a multi-dimensional parallel (min[], max[]) pair:
// identical lengths and dimension-wise min[i] <= max[i] after resolving each
// dimension's exclusivity independently via NewLongRange. It returns the
// normalised inclusive bounds as parallel slices.
func NewLongRangeND(mins []int64, minInclusive []bool, maxs []int64, maxInclusive []bool) (normMin, normMax []int64, err error) {
	if len(mins) != len(maxs) || len(mins) != len(minInclusive) || len(mins) != len(maxInclusive) {
		return nil, nil, fmt.Errorf("rangeval: mismatched dimension array lengths: min=%d max=%d minIncl=%d maxIncl=%d",
			len(mins), len(maxs), len(minInclusive), len(maxInclusive))
	}
	normMin = make([]int64, len(mins))
	normMax = make([]int64, len(mins))
	for i := range mins {
		r, err := NewLongRange("", mins[i], minInclusive[i], maxs[i], maxInclusive[i])
		if err != nil {
			return nil, nil, fmt.Errorf("dim %d: %w", i, err)
		}
		normMin[i], normMax[i] = r.Min, r.Max
	}
	return normMin, normMax, nil
}

// NewDoubleRangeND is the double-precision analogue of NewLongRangeND.
func NewDoubleRangeND(mins []float64, minInclusive []bool, maxs []float64, maxInclusive []bool) (normMin, normMax []float64, err error) {
	if len(mins) != len(maxs) || len(mins) != len(minInclusive) || len(mins) != len(maxInclusive) {
		return nil, nil, fmt.Errorf("rangeval: mismatched dimension array lengths: min=%d max=%d minIncl=%d maxIncl=%d",
			len(mins), len(maxs), len(minInclusive), len(maxInclusive))
	}
	normMin = make([]float64, len(mins))
	normMax = make([]float64, len(mins))
	for i := range mins {
		r, err := NewDoubleRange("", mins[i], minInclusive[i], maxs[i], maxInclusive[i])
		if err != nil {
			return nil, nil, fmt.Errorf("dim %d: %w", i, err)
		}
		normMin[i], normMax[i] = r.Min, r.Max
	}
	return normMin, normMax, nil
}
