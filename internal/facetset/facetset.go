// Package facetset implements the typed N-tuple facet-set primitives
// (spec.md §4.2, component C2): long/int/float/double dimension-value tuples
// that reduce to a common sortable-long comparison space.
package facetset

import (
	"fmt"

	"facetcore/internal/sortenc"
)

// FacetSet holds one N-tuple of typed dimension values attached to a
// document. All concrete variants expose a canonical comparable-long view
// used by facetsetmatch matchers, plus a packer for the narrow typed byte
// width of their own primitive (used by index-time encoding, out of scope
// for this core; callers of this core read the always-8-byte-per-dimension
// BinaryDocValues payload directly — see facetsetcounts).
type FacetSet interface {
	// Dims returns the tuple width.
	Dims() int

	// ComparableValues returns the sortable-long view used for matching.
	ComparableValues() []int64

	// PackValues writes this set's raw-typed bytes into buf starting at
	// start, and returns the number of bytes written.
	PackValues(buf []byte, start int) int

	// SizePackedBytes returns the number of bytes PackValues will write.
	SizePackedBytes() int
}

// LongFacetSet holds long (int64) dimension values. The comparable-long view
// is the identity: longs already live in the canonical comparison space.
type LongFacetSet struct {
	Values []int64
}

// NewLongFacetSet constructs a LongFacetSet. values must be non-empty.
func NewLongFacetSet(values ...int64) (*LongFacetSet, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("facetset: values must not be empty")
	}
	return &LongFacetSet{Values: values}, nil
}

func (s *LongFacetSet) Dims() int { return len(s.Values) }

func (s *LongFacetSet) ComparableValues() []int64 {
	out := make([]int64, len(s.Values))
	copy(out, s.Values)
	return out
}

func (s *LongFacetSet) PackValues(buf []byte, start int) int {
	for i, v := range s.Values {
		sortenc.PutUint64BE(buf, start+i*8, sortenc.EncodeBiasedInt64(v))
	}
	return len(s.Values) * 8
}

func (s *LongFacetSet) SizePackedBytes() int { return len(s.Values) * 8 }

// IntFacetSet holds 32-bit integer dimension values. The comparable-long
// view sign-extends each value into the low bits of an int64 ("identity into
// the low 32 bits" per spec.md §4.2).
type IntFacetSet struct {
	Values []int32
}

// NewIntFacetSet constructs an IntFacetSet. values must be non-empty.
func NewIntFacetSet(values ...int32) (*IntFacetSet, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("facetset: values must not be empty")
	}
	return &IntFacetSet{Values: values}, nil
}

func (s *IntFacetSet) Dims() int { return len(s.Values) }

func (s *IntFacetSet) ComparableValues() []int64 {
	out := make([]int64, len(s.Values))
	for i, v := range s.Values {
		out[i] = int64(v)
	}
	return out
}

func (s *IntFacetSet) PackValues(buf []byte, start int) int {
	for i, v := range s.Values {
		sortenc.PutUint32BE(buf, start+i*4, sortenc.EncodeBiasedInt32(v))
	}
	return len(s.Values) * 4
}

func (s *IntFacetSet) SizePackedBytes() int { return len(s.Values) * 4 }

// FloatFacetSet holds 32-bit float dimension values, reduced to the
// sortable-bit-encoded comparable-long space (spec.md §4.2).
type FloatFacetSet struct {
	Values []float32
}

// NewFloatFacetSet constructs a FloatFacetSet. values must be non-empty.
func NewFloatFacetSet(values ...float32) (*FloatFacetSet, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("facetset: values must not be empty")
	}
	return &FloatFacetSet{Values: values}, nil
}

func (s *FloatFacetSet) Dims() int { return len(s.Values) }

func (s *FloatFacetSet) ComparableValues() []int64 {
	out := make([]int64, len(s.Values))
	for i, v := range s.Values {
		out[i] = int64(sortenc.Float32ToSortableInt32(v))
	}
	return out
}

func (s *FloatFacetSet) PackValues(buf []byte, start int) int {
	for i, v := range s.Values {
		sortenc.PutUint32BE(buf, start+i*4, sortenc.EncodeBiasedInt32(sortenc.Float32ToSortableInt32(v)))
	}
	return len(s.Values) * 4
}

func (s *FloatFacetSet) SizePackedBytes() int { return len(s.Values) * 4 }

// DoubleFacetSet holds 64-bit float dimension values, reduced to the
// sortable-bit-encoded comparable-long space (spec.md §4.2).
type DoubleFacetSet struct {
	Values []float64
}

// NewDoubleFacetSet constructs a DoubleFacetSet. values must be non-empty.
func NewDoubleFacetSet(values ...float64) (*DoubleFacetSet, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("facetset: values must not be empty")
	}
	return &DoubleFacetSet{Values: values}, nil
}

func (s *DoubleFacetSet) Dims() int { return len(s.Values) }

func (s *DoubleFacetSet) ComparableValues() []int64 {
	out := make([]int64, len(s.Values))
	for i, v := range s.Values {
		out[i] = sortenc.Float64ToSortableInt64(v)
	}
	return out
}

func (s *DoubleFacetSet) PackValues(buf []byte, start int) int {
	for i, v := range s.Values {
		sortenc.PutUint64BE(buf, start+i*8, sortenc.EncodeBiasedInt64(sortenc.Float64ToSortableInt64(v)))
	}
	return len(s.Values) * 8
}

func (s *DoubleFacetSet) SizePackedBytes() int { return len(s.Values) * 8 }
