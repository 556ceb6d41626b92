package facetresult

import "testing"

func TestValidateTopN(t *testing.T) {
	if err := ValidateTopN(0); err == nil {
		t.Error("expected error for topN=0")
	}
	if err := ValidateTopN(-1); err == nil {
		t.Error("expected error for topN=-1")
	}
	if err := ValidateTopN(1); err != nil {
		t.Errorf("unexpected error for topN=1: %v", err)
	}
}

// TestTopNHeap_TieBreak checks property 7: equal counts come out ascending
// by label.
func TestTopNHeap_TieBreak(t *testing.T) {
	h := NewTopNHeap(10)
	h.Offer(0, "y", 5)
	h.Offer(1, "x", 5)
	h.Offer(2, "z", 5)

	got := h.PopAllDescending()
	want := []string{"x", "y", "z"}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	for i, w := range want {
		if got[i].Label != w || got[i].Value != 5 {
			t.Errorf("index %d: got %+v, want label %q value 5", i, got[i], w)
		}
	}
}

func TestTopNHeap_OrdersByCountDesc(t *testing.T) {
	h := NewTopNHeap(10)
	h.Offer(0, "a", 1)
	h.Offer(1, "b", 3)
	h.Offer(2, "c", 2)

	got := h.PopAllDescending()
	wantCounts := []int64{3, 2, 1}
	for i, w := range wantCounts {
		if got[i].Value != w {
			t.Errorf("index %d: got count %d, want %d", i, got[i].Value, w)
		}
	}
}

func TestTopNHeap_EvictsMinimumOnOverflow(t *testing.T) {
	h := NewTopNHeap(2)
	h.Offer(0, "a", 1)
	h.Offer(1, "b", 2)
	h.Offer(2, "c", 3) // should evict a (count 1)

	got := h.PopAllDescending()
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Label != "c" || got[1].Label != "b" {
		t.Fatalf("got %+v, want [c b]", got)
	}
}

func TestSortByValueDescDimAsc(t *testing.T) {
	results := []FacetResult{
		{Dim: "z", Value: 5},
		{Dim: "a", Value: 5},
		{Dim: "b", Value: 10},
	}
	SortByValueDescDimAsc(results)
	want := []string{"b", "a", "z"}
	for i, w := range want {
		if results[i].Dim != w {
			t.Errorf("index %d: got dim %q, want %q", i, results[i].Dim, w)
		}
	}
}
