package docvalues

import "testing"

func TestMemorySortedSet_LookupTermAndOrd(t *testing.T) {
	dict := [][]byte{[]byte("A/x"), []byte("A/y"), []byte("B/z")}
	docs := map[int][]int64{0: {0}, 1: {1}, 2: {0, 2}}
	dv := NewMemorySortedSet(dict, docs)

	if ord := dv.LookupTerm([]byte("A/y")); ord != 1 {
		t.Fatalf("LookupTerm(A/y) = %d, want 1", ord)
	}
	if ord := dv.LookupTerm([]byte("missing")); ord != -1 {
		t.Fatalf("LookupTerm(missing) = %d, want -1", ord)
	}

	found, err := dv.AdvanceExact(2)
	if err != nil || !found {
		t.Fatalf("AdvanceExact(2) = %v, %v", found, err)
	}
	var got []int64
	for ord := dv.NextOrd(); ord != NoMoreOrds; ord = dv.NextOrd() {
		got = append(got, ord)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("doc 2 ords = %v, want [0 2]", got)
	}
}

func TestMemorySortedSet_AsSingleValued(t *testing.T) {
	dict := [][]byte{[]byte("A/x"), []byte("A/y")}

	single := NewMemorySortedSet(dict, map[int][]int64{0: {0}, 1: {1}})
	if _, ok := single.AsSingleValued(); !ok {
		t.Error("expected single-valued dv to unwrap")
	}

	multi := NewMemorySortedSet(dict, map[int][]int64{0: {0, 1}})
	if _, ok := multi.AsSingleValued(); ok {
		t.Error("expected multi-valued dv to not unwrap")
	}
}

func TestUnwrapSingleton(t *testing.T) {
	dict := [][]byte{[]byte("A/x")}
	dv := NewMemorySortedSet(dict, map[int][]int64{0: {0}})
	sv, ok := UnwrapSingleton(dv)
	if !ok {
		t.Fatal("expected UnwrapSingleton to succeed")
	}
	found, err := sv.AdvanceExact(0)
	if err != nil || !found || sv.OrdValue() != 0 {
		t.Fatalf("unwrapped singleton: found=%v err=%v ord=%d", found, err, sv.OrdValue())
	}
}
