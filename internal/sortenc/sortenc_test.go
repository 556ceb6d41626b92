package sortenc

import (
	"math"
	"sort"
	"testing"
)

func TestFloat64SortableOrderMatchesNumericOrder(t *testing.T) {
	values := []float64{
		math.Inf(-1), -1e300, -1.5, -0.0, 0.0, 1.5, 1e300, math.Inf(1),
	}
	sortable := make([]int64, len(values))
	for i, v := range values {
		sortable[i] = Float64ToSortableInt64(v)
	}
	if !sort.SliceIsSorted(sortable, func(i, j int) bool { return sortable[i] < sortable[j] }) {
		t.Fatalf("sortable longs %v not ascending for ascending inputs %v", sortable, values)
	}
	for i, v := range values {
		got := SortableInt64ToFloat64(sortable[i])
		if got != v && !(v == 0 && got == 0) {
			t.Errorf("round trip %v -> %d -> %v", v, sortable[i], got)
		}
	}
}

func TestFloat32SortableOrderMatchesNumericOrder(t *testing.T) {
	values := []float32{
		float32(math.Inf(-1)), -42.5, -0.0, 0.0, 42.5, float32(math.Inf(1)),
	}
	sortable := make([]int32, len(values))
	for i, v := range values {
		sortable[i] = Float32ToSortableInt32(v)
	}
	if !sort.SliceIsSorted(sortable, func(i, j int) bool { return sortable[i] < sortable[j] }) {
		t.Fatalf("sortable ints %v not ascending for ascending inputs %v", sortable, values)
	}
}

func TestBiasedIntRoundTrip(t *testing.T) {
	for _, v := range []int32{math.MinInt32, -1, 0, 1, math.MaxInt32} {
		if got := DecodeBiasedInt32(EncodeBiasedInt32(v)); got != v {
			t.Errorf("int32 round trip %d -> %d", v, got)
		}
	}
	for _, v := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
		if got := DecodeBiasedInt64(EncodeBiasedInt64(v)); got != v {
			t.Errorf("int64 round trip %d -> %d", v, got)
		}
	}
}

func TestBiasedIntUnsignedByteOrderMatchesSignedOrder(t *testing.T) {
	vals := []int32{math.MinInt32, -100, -1, 0, 1, 100, math.MaxInt32}
	for i := 0; i < len(vals)-1; i++ {
		a, b := EncodeBiasedInt32(vals[i]), EncodeBiasedInt32(vals[i+1])
		if a >= b {
			t.Fatalf("biased encoding broke order: %d (biased %d) >= %d (biased %d)", vals[i], a, vals[i+1], b)
		}
	}
}

func TestUnsignedCompareBytesMatchesSortableLongOrder(t *testing.T) {
	longs := []int64{-1000, -1, 0, 1, 1000}
	bufs := make([][]byte, len(longs))
	for i, v := range longs {
		buf := make([]byte, 8)
		PutSortableLong(buf, 0, v)
		bufs[i] = buf
	}
	for i := 0; i < len(bufs)-1; i++ {
		if UnsignedCompareBytes(bufs[i], bufs[i+1]) >= 0 {
			t.Fatalf("byte comparison did not preserve order at index %d", i)
		}
	}
}

func TestEncodedValueBytes(t *testing.T) {
	cases := map[Kind]int{KindLong: 8, KindDouble: 8, KindInt: 4, KindFloat: 4}
	for kind, want := range cases {
		if got := EncodedValueBytes(kind); got != want {
			t.Errorf("EncodedValueBytes(%v) = %d, want %d", kind, got, want)
		}
	}
}
