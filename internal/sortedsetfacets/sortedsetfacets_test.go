package sortedsetfacets

import (
	"testing"

	"facetcore/internal/docvalues"
	"facetcore/internal/fixture"
	"facetcore/internal/ordinal"
	"facetcore/internal/readerstate"
)

// TestGetTopChildren_FlatSingleSegment grounds spec.md E1: a flat field, one
// segment, every doc counted.
func TestGetTopChildren_FlatSingleSegment(t *testing.T) {
	readerKey := "r1"
	labels := []string{
		ordinal.PathToString("Author", "Bob"),
		ordinal.PathToString("Author", "Lisa"),
		ordinal.PathToString("Author", "Susan"),
	}
	seg := fixture.SegFromDocs(labels, map[int][]int64{
		0: {0},    // Bob
		1: {1},    // Lisa
		2: {1},    // Lisa
		3: {2},    // Susan
	})
	rs, err := readerstate.NewReaderState(readerKey, "author", false, []docvalues.SortedSetDocValues{seg})
	if err != nil {
		t.Fatal(err)
	}
	hits := []docvalues.MatchingDocs{fixture.Hits(readerKey, 0, fixture.MatchAll(4))}
	fc, err := NewOrdinalFacetCounts(rs, hits, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if fc.TotCount() != 4 {
		t.Fatalf("TotCount() = %d, want 4", fc.TotCount())
	}
	res, err := fc.GetTopChildren(10, "Author")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Value != 4 {
		t.Errorf("Value = %d, want 4", res.Value)
	}
	if res.ChildCount != 3 {
		t.Errorf("ChildCount = %d, want 3", res.ChildCount)
	}
	want := map[string]int64{"Bob": 1, "Lisa": 2, "Susan": 1}
	if len(res.LabelValues) != 3 {
		t.Fatalf("got %d label values, want 3", len(res.LabelValues))
	}
	if res.LabelValues[0].Label != "Lisa" || res.LabelValues[0].Value != 2 {
		t.Errorf("top entry = %+v, want Lisa:2", res.LabelValues[0])
	}
	for _, lv := range res.LabelValues {
		if want[lv.Label] != lv.Value {
			t.Errorf("label %q = %d, want %d", lv.Label, lv.Value, want[lv.Label])
		}
	}
}

// TestGetTopChildren_HierarchicalMultiSegment grounds spec.md E2, exercising
// the cross-segment ordinal map and the dense/sparse density heuristic.
func TestGetTopChildren_HierarchicalMultiSegment(t *testing.T) {
	readerKey := "r2"
	seg0 := fixture.SegFromDocs([]string{
		ordinal.PathToString("a"),
		ordinal.PathToString("a", "b"),
		ordinal.PathToString("a", "d"),
	}, map[int][]int64{
		0: {1}, // a/b
		1: {2}, // a/d
	})
	seg1 := fixture.SegFromDocs([]string{
		ordinal.PathToString("a"),
		ordinal.PathToString("a", "b"),
	}, map[int][]int64{
		0: {1}, // a/b
		1: {1}, // a/b
	})
	rs, err := readerstate.NewReaderState(readerKey, "cat", true, []docvalues.SortedSetDocValues{seg0, seg1})
	if err != nil {
		t.Fatal(err)
	}
	hits := []docvalues.MatchingDocs{
		fixture.Hits(readerKey, 0, fixture.MatchAll(2)),
		fixture.Hits(readerKey, 1, fixture.MatchAll(2)),
	}
	fc, err := NewOrdinalFacetCounts(rs, hits, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	res, err := fc.GetTopChildren(10, "a")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	var b, d int64
	for _, lv := range res.LabelValues {
		switch lv.Label {
		case "b":
			b = lv.Value
		case "d":
			d = lv.Value
		}
	}
	if b != 3 {
		t.Errorf("a/b count = %d, want 3", b)
	}
	if d != 1 {
		t.Errorf("a/d count = %d, want 1", d)
	}
}

// TestGetTopChildren_UnknownDimReturnsNil grounds the "unknown dim/path"
// boundary: no error, a nil result.
func TestGetTopChildren_UnknownDimReturnsNil(t *testing.T) {
	readerKey := "r3"
	seg := fixture.SegFromDocs([]string{ordinal.PathToString("A", "x")}, map[int][]int64{0: {0}})
	rs, err := readerstate.NewReaderState(readerKey, "f", false, []docvalues.SortedSetDocValues{seg})
	if err != nil {
		t.Fatal(err)
	}
	fc, err := NewOrdinalFacetCounts(rs, []docvalues.MatchingDocs{fixture.Hits(readerKey, 0, fixture.MatchAll(1))}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	res, err := fc.GetTopChildren(10, "NoSuchDim")
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("expected nil result for unknown dim, got %+v", res)
	}
}

// TestGetAllChildren_ReturnsEveryNonZeroChild grounds the supplemented
// getAllChildren operation: no top-N truncation.
func TestGetAllChildren_ReturnsEveryNonZeroChild(t *testing.T) {
	readerKey := "r4"
	labels := []string{
		ordinal.PathToString("Author", "Bob"),
		ordinal.PathToString("Author", "Lisa"),
		ordinal.PathToString("Author", "Susan"),
	}
	seg := fixture.SegFromDocs(labels, map[int][]int64{0: {0}, 1: {1}, 2: {2}})
	rs, err := readerstate.NewReaderState(readerKey, "author", false, []docvalues.SortedSetDocValues{seg})
	if err != nil {
		t.Fatal(err)
	}
	fc, err := NewOrdinalFacetCounts(rs, []docvalues.MatchingDocs{fixture.Hits(readerKey, 0, fixture.MatchAll(3))}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	res, err := fc.GetAllChildren("Author")
	if err != nil {
		t.Fatal(err)
	}
	if res.ChildCount != 3 || len(res.LabelValues) != 3 {
		t.Fatalf("got %+v, want all 3 children", res)
	}
}

// TestGetAllDims_SortsByValueDescDimAsc grounds spec.md §4.8 ordering.
func TestGetAllDims_SortsByValueDescDimAsc(t *testing.T) {
	readerKey := "r5"
	seg := fixture.SegFromDocs([]string{
		ordinal.PathToString("Author", "Bob"),
		ordinal.PathToString("Genre", "SciFi"),
	}, map[int][]int64{
		0: {0},
		1: {1},
		2: {1},
	})
	rs, err := readerstate.NewReaderState(readerKey, "f", false, []docvalues.SortedSetDocValues{seg})
	if err != nil {
		t.Fatal(err)
	}
	fc, err := NewOrdinalFacetCounts(rs, []docvalues.MatchingDocs{fixture.Hits(readerKey, 0, fixture.MatchAll(3))}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	dims, err := fc.GetAllDims(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(dims) != 2 {
		t.Fatalf("got %d dims, want 2", len(dims))
	}
	if dims[0].Dim != "Genre" || dims[0].Value != 2 {
		t.Errorf("dims[0] = %+v, want Genre:2 first (higher value)", dims[0])
	}
	if dims[1].Dim != "Author" || dims[1].Value != 1 {
		t.Errorf("dims[1] = %+v, want Author:1", dims[1])
	}
}

// TestNewOrdinalFacetCounts_ReaderMismatch grounds the reader-mismatch check
// of spec.md §7.
func TestNewOrdinalFacetCounts_ReaderMismatch(t *testing.T) {
	readerKey := "r6"
	seg := fixture.SegFromDocs([]string{ordinal.PathToString("A", "x")}, map[int][]int64{0: {0}})
	rs, err := readerstate.NewReaderState(readerKey, "f", false, []docvalues.SortedSetDocValues{seg})
	if err != nil {
		t.Fatal(err)
	}
	badHits := []docvalues.MatchingDocs{fixture.Hits("someone-else", 0, fixture.MatchAll(1))}
	if _, err := NewOrdinalFacetCounts(rs, badHits, DefaultOptions()); err != docvalues.ErrReaderMismatch {
		t.Errorf("got err=%v, want ErrReaderMismatch", err)
	}
}
