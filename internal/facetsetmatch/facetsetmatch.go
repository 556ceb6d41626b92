// Package facetsetmatch implements the facet-set matcher catalog (spec.md
// §4.3, component C3): decision predicates over decoded dimension-value
// tuples, with an optional zero-decode fast path over packed bytes.
package facetsetmatch

import (
	"bytes"
	"fmt"

	"facetcore/internal/facetset"
	"facetcore/internal/rangeval"
	"facetcore/internal/sortenc"
)

// Matcher decides whether a decoded dimension-value tuple belongs to this
// matcher's logical bucket.
type Matcher interface {
	// Label identifies this matcher's bucket in results.
	Label() string

	// Dims is the number of dimensions this matcher expects.
	Dims() int

	// Matches reports whether dimValues (length Dims()) is in the bucket.
	Matches(dimValues []int64) bool
}

// ByteMatcher is implemented by matchers that can evaluate a tuple directly
// from its packed on-disk bytes without decoding into a long[] buffer first
// (spec.md §4.3's "countBytes" fast path).
type ByteMatcher interface {
	Matcher
	MatchesBytes(packedValue []byte, start, numDims int) bool
}

// ExactMatcher matches a tuple only if every dimension value equals the
// matcher's stored value in that dimension.
type ExactMatcher struct {
	label  string
	values []int64
	// packed holds the sortable-long, biased-encoded 8-byte form of each
	// value, precomputed once so MatchesBytes can compare raw bytes without
	// decoding the document's tuple.
	packed []byte
}

// NewExactMatcher constructs an ExactMatcher for the given facet set's
// comparable values. Mismatched dimensionality against a later Matches call
// is a programmer error (spec.md §4.3 "fail loudly") and panics there, not
// here — construction only needs the facet set's own dimensionality.
func NewExactMatcher(label string, set facetset.FacetSet) *ExactMatcher {
	values := set.ComparableValues()
	packed := make([]byte, len(values)*8)
	for i, v := range values {
		sortenc.PutSortableLong(packed, i*8, v)
	}
	return &ExactMatcher{label: label, values: values, packed: packed}
}

func (m *ExactMatcher) Label() string { return m.label }
func (m *ExactMatcher) Dims() int     { return len(m.values) }

func (m *ExactMatcher) Matches(dimValues []int64) bool {
	mustMatchDims(m.Dims(), len(dimValues))
	for i, v := range m.values {
		if dimValues[i] != v {
			return false
		}
	}
	return true
}

func (m *ExactMatcher) MatchesBytes(packedValue []byte, start, numDims int) bool {
	mustMatchDims(m.Dims(), numDims)
	for i := 0; i < numDims; i++ {
		a := packedValue[start+i*8 : start+i*8+8]
		b := m.packed[i*8 : i*8+8]
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}

// RangeMatcher matches a tuple if every dimension value falls within the
// matcher's corresponding inclusive [lower, upper] bound.
type RangeMatcher struct {
	label  string
	lower  []int64
	upper  []int64
	// lowerBytes/upperBytes hold the sortable-long, biased-encoded 8-byte
	// bound per dimension, enabling MatchesBytes to compare unsigned bytes
	// directly instead of decoding the document's tuple to int64 first.
	lowerBytes []byte
	upperBytes []byte
}

// NewRangeMatcherFromRanges constructs a RangeMatcher from one normalised
// rangeval.LongRange per dimension (already inclusive).
func NewRangeMatcherFromRanges(label string, dimRanges ...*rangeval.LongRange) (*RangeMatcher, error) {
	if len(dimRanges) == 0 {
		return nil, fmt.Errorf("facetsetmatch: dimRanges must not be empty")
	}
	lower := make([]int64, len(dimRanges))
	upper := make([]int64, len(dimRanges))
	for i, r := range dimRanges {
		lower[i], upper[i] = r.Min, r.Max
	}
	return newRangeMatcher(label, lower, upper)
}

// NewRangeMatcherFromBounds constructs a RangeMatcher directly from parallel
// inclusive lower/upper bound arrays (the hyper-rectangle convenience form
// from original_source's RangeFacetSetMatcher).
func NewRangeMatcherFromBounds(label string, lower, upper []int64) (*RangeMatcher, error) {
	if len(lower) == 0 {
		return nil, fmt.Errorf("facetsetmatch: bounds must not be empty")
	}
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("facetsetmatch: lower/upper length mismatch: %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return nil, fmt.Errorf("facetsetmatch: dim %d: lower %d > upper %d", i, lower[i], upper[i])
		}
	}
	return newRangeMatcher(label, lower, upper)
}

func newRangeMatcher(label string, lower, upper []int64) (*RangeMatcher, error) {
	lowerBytes := make([]byte, len(lower)*8)
	upperBytes := make([]byte, len(upper)*8)
	for i := range lower {
		sortenc.PutSortableLong(lowerBytes, i*8, lower[i])
		sortenc.PutSortableLong(upperBytes, i*8, upper[i])
	}
	return &RangeMatcher{
		label: label, lower: lower, upper: upper,
		lowerBytes: lowerBytes, upperBytes: upperBytes,
	}, nil
}

func (m *RangeMatcher) Label() string { return m.label }
func (m *RangeMatcher) Dims() int     { return len(m.lower) }

func (m *RangeMatcher) Matches(dimValues []int64) bool {
	mustMatchDims(m.Dims(), len(dimValues))
	for i, v := range dimValues {
		if v < m.lower[i] || v > m.upper[i] {
			return false
		}
	}
	return true
}

func (m *RangeMatcher) MatchesBytes(packedValue []byte, start, numDims int) bool {
	mustMatchDims(m.Dims(), numDims)
	for i := 0; i < numDims; i++ {
		v := packedValue[start+i*8 : start+i*8+8]
		lo := m.lowerBytes[i*8 : i*8+8]
		hi := m.upperBytes[i*8 : i*8+8]
		if sortenc.UnsignedCompareBytes(v, lo) < 0 || sortenc.UnsignedCompareBytes(v, hi) > 0 {
			return false
		}
	}
	return true
}

// DimensionMismatchError reports that a matcher was evaluated against a
// tuple of different width than it was built for — a precondition violation
// per spec.md §4.3 ("fail loudly"), not a recoverable input error.
type DimensionMismatchError struct {
	Expected, Actual int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("facetsetmatch: expected %d dimensions, got %d", e.Expected, e.Actual)
}

func mustMatchDims(expected, actual int) {
	if expected != actual {
		panic(&DimensionMismatchError{Expected: expected, Actual: actual})
	}
}

// ValidateConsistentDims checks that every matcher in the catalog shares the
// same dimensionality, as required by the facet-set counting engine (C6)
// before it can assume a single numDims for the whole field.
func ValidateConsistentDims(matchers []Matcher) error {
	if len(matchers) == 0 {
		return fmt.Errorf("facetsetmatch: matchers must not be empty")
	}
	dims := matchers[0].Dims()
	for i, m := range matchers[1:] {
		if m.Dims() != dims {
			return fmt.Errorf("facetsetmatch: matcher %d has %d dims, matcher 0 has %d", i+1, m.Dims(), dims)
		}
	}
	return nil
}
