package readerstate

import (
	"testing"

	"facetcore/internal/docvalues"
	"facetcore/internal/ordinal"
)

func seg(labels ...string) docvalues.SortedSetDocValues {
	dict := make([][]byte, len(labels))
	for i, l := range labels {
		dict[i] = []byte(l)
	}
	return docvalues.NewMemorySortedSet(dict, nil)
}

func TestNewReaderState_SingleSegmentFlat(t *testing.T) {
	readerKey := "reader-1"
	segments := []docvalues.SortedSetDocValues{
		seg(ordinal.PathToString("A", "x"), ordinal.PathToString("A", "y")),
	}
	rs, err := NewReaderState(readerKey, "field", false, segments)
	if err != nil {
		t.Fatal(err)
	}
	if !rs.Single() {
		t.Error("expected Single() to report true for one segment")
	}
	layout, err := rs.FlatLayout()
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := layout["A"]; !ok || r != (ordinal.OrdRange{Start: 0, End: 1}) {
		t.Fatalf("layout[A] = %v, ok=%v", r, ok)
	}
}

func TestNewReaderState_MergesMultipleSegments(t *testing.T) {
	readerKey := "reader-2"
	segments := []docvalues.SortedSetDocValues{
		seg(ordinal.PathToString("A", "x"), ordinal.PathToString("B", "z")),
		seg(ordinal.PathToString("A", "y"), ordinal.PathToString("B", "z")),
	}
	rs, err := NewReaderState(readerKey, "field", false, segments)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Size() != 3 {
		t.Fatalf("Size() = %d, want 3 (A/x, A/y, B/z deduplicated)", rs.Size())
	}

	ordMap, err := rs.GetOrdinalMap()
	if err != nil {
		t.Fatal(err)
	}
	// B/z is ord 1 in both segments locally but must map to the same global ord.
	g0 := ordMap.GlobalOrds(0).Get(1)
	g1 := ordMap.GlobalOrds(1).Get(1)
	if g0 != g1 {
		t.Fatalf("B/z global ords diverged: seg0=%d seg1=%d", g0, g1)
	}
}

func TestReaderState_VerifyReader(t *testing.T) {
	readerKey := "reader-3"
	segments := []docvalues.SortedSetDocValues{seg(ordinal.PathToString("A", "x"))}
	rs, err := NewReaderState(readerKey, "field", false, segments)
	if err != nil {
		t.Fatal(err)
	}
	ok := docvalues.LeafContext{TopLevelReaderKey: readerKey}
	if err := rs.VerifyReader(ok); err != nil {
		t.Errorf("unexpected mismatch error: %v", err)
	}
	mismatch := docvalues.LeafContext{TopLevelReaderKey: "someone-else"}
	if err := rs.VerifyReader(mismatch); err == nil {
		t.Error("expected reader mismatch error")
	}
}

func TestReaderState_HierarchicalRejectsFlatOps(t *testing.T) {
	segments := []docvalues.SortedSetDocValues{seg(ordinal.PathToString("a"), ordinal.PathToString("a", "b"))}
	rs, err := NewReaderState("r", "field", true, segments)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rs.FlatLayout(); err != ErrNotFlat {
		t.Errorf("expected ErrNotFlat, got %v", err)
	}
	if _, err := rs.Tree(); err != nil {
		t.Errorf("unexpected error calling Tree() on hierarchical state: %v", err)
	}
}
