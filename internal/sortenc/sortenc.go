// Package sortenc implements the sortable byte encodings shared by the
// facet-set and range-on-range engines: a bijection from a numeric type to
// bytes (or to an int64/int32 "sortable long/int" view) such that unsigned
// lexicographic byte comparison matches numeric order.
package sortenc

import (
	"encoding/binary"
	"math"
)

// Float32ToSortableInt32 converts f to an int32 such that the natural int32
// ordering matches the numeric ordering of floats, including across the
// positive/negative boundary. NaN is not given a meaningful ordering; callers
// reject NaN before it reaches here.
func Float32ToSortableInt32(f float32) int32 {
	bits := int32(math.Float32bits(f))
	if bits < 0 {
		bits ^= 0x7fffffff
	}
	return bits
}

// SortableInt32ToFloat32 inverts Float32ToSortableInt32.
func SortableInt32ToFloat32(sortable int32) float32 {
	if sortable < 0 {
		sortable ^= 0x7fffffff
	}
	return math.Float32frombits(uint32(sortable))
}

// Float64ToSortableInt64 converts d to an int64 such that the natural int64
// ordering matches the numeric ordering of doubles.
func Float64ToSortableInt64(d float64) int64 {
	bits := int64(math.Float64bits(d))
	if bits < 0 {
		bits ^= 0x7fffffffffffffff
	}
	return bits
}

// SortableInt64ToFloat64 inverts Float64ToSortableInt64.
func SortableInt64ToFloat64(sortable int64) float64 {
	if sortable < 0 {
		sortable ^= 0x7fffffffffffffff
	}
	return math.Float64frombits(uint64(sortable))
}

// EncodeBiasedInt32 flips the sign bit of a signed 32-bit integer so unsigned
// big-endian byte comparison of the result matches signed numeric comparison
// of the original value.
func EncodeBiasedInt32(v int32) uint32 {
	return uint32(v) ^ 0x80000000
}

// DecodeBiasedInt32 inverts EncodeBiasedInt32.
func DecodeBiasedInt32(biased uint32) int32 {
	return int32(biased ^ 0x80000000)
}

// EncodeBiasedInt64 flips the sign bit of a signed 64-bit integer so unsigned
// big-endian byte comparison of the result matches signed numeric comparison
// of the original value.
func EncodeBiasedInt64(v int64) uint64 {
	return uint64(v) ^ 0x8000000000000000
}

// DecodeBiasedInt64 inverts EncodeBiasedInt64.
func DecodeBiasedInt64(biased uint64) int64 {
	return int64(biased ^ 0x8000000000000000)
}

// PutUint32BE writes v as 4 big-endian bytes into buf[start:start+4].
func PutUint32BE(buf []byte, start int, v uint32) {
	binary.BigEndian.PutUint32(buf[start:start+4], v)
}

// GetUint32BE reads 4 big-endian bytes from buf[start:start+4].
func GetUint32BE(buf []byte, start int) uint32 {
	return binary.BigEndian.Uint32(buf[start : start+4])
}

// PutUint64BE writes v as 8 big-endian bytes into buf[start:start+8].
func PutUint64BE(buf []byte, start int, v uint64) {
	binary.BigEndian.PutUint64(buf[start:start+8], v)
}

// GetUint64BE reads 8 big-endian bytes from buf[start:start+8].
func GetUint64BE(buf []byte, start int) uint64 {
	return binary.BigEndian.Uint64(buf[start : start+8])
}

// PutSortableLong writes a comparable long (the identity for Long/Int facet
// sets, or the output of Float64ToSortableInt64/Float32ToSortableInt32 for
// Double/Float ones) as 8 big-endian bytes into buf[start:start+8], applying
// the sign-bit bias so unsigned byte comparison matches the long's signed
// numeric order.
func PutSortableLong(buf []byte, start int, v int64) {
	PutUint64BE(buf, start, EncodeBiasedInt64(v))
}

// GetSortableLong inverts PutSortableLong.
func GetSortableLong(buf []byte, start int) int64 {
	return DecodeBiasedInt64(GetUint64BE(buf, start))
}

// Kind tags the primitive numeric type backing a dimension value. It
// determines the on-disk width of a range-on-range box dimension (spec.md
// §3 "Range box"): 4 bytes for int/float, 8 for long/double.
type Kind int

const (
	KindLong Kind = iota
	KindDouble
	KindInt
	KindFloat
)

// EncodedValueBytes returns the on-disk width of a single dimension value.
func EncodedValueBytes(kind Kind) int {
	switch kind {
	case KindInt, KindFloat:
		return 4
	default:
		return 8
	}
}

// UnsignedCompareBytes compares two equal-length byte slices as big-endian
// unsigned integers, returning -1, 0, or 1. This is the comparator named in
// spec.md §4.7 step 4 ("getUnsignedComparator(encodedValueBytes)") that lets
// sortable-long/float/double and biased-int encodings all compare correctly
// through one byte-wise routine.
func UnsignedCompareBytes(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
