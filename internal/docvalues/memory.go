package docvalues

import (
	"bytes"
	"fmt"
	"sort"
)

// MemorySortedSet is a reference, in-memory SortedSetDocValues for a single
// segment, backed by a sorted dictionary and a per-doc list of ordinals.
// Built by fixture for tests; production doc-values pages come from the
// codec this core treats as an external collaborator (spec.md §1).
type MemorySortedSet struct {
	dict [][]byte
	docs map[int][]int64 // doc -> sorted ordinals

	curDoc   int
	curPos   int
	curOrds  []int64
	curFound bool
}

// NewMemorySortedSet builds a MemorySortedSet from a sorted, de-duplicated
// dictionary and a per-document list of ordinals (each already sorted
// ascending). Passing an empty docs map is valid (spec.md E6, "no docs").
func NewMemorySortedSet(dict [][]byte, docs map[int][]int64) *MemorySortedSet {
	return &MemorySortedSet{dict: dict, docs: docs}
}

func (s *MemorySortedSet) AdvanceExact(doc int) (bool, error) {
	ords, ok := s.docs[doc]
	s.curDoc, s.curOrds, s.curPos, s.curFound = doc, ords, 0, ok
	return ok, nil
}

func (s *MemorySortedSet) NextOrd() int64 {
	if s.curPos >= len(s.curOrds) {
		return NoMoreOrds
	}
	ord := s.curOrds[s.curPos]
	s.curPos++
	return ord
}

func (s *MemorySortedSet) LookupOrd(ord int64) ([]byte, error) {
	if ord < 0 || int(ord) >= len(s.dict) {
		return nil, fmt.Errorf("docvalues: ordinal %d out of range [0,%d)", ord, len(s.dict))
	}
	return s.dict[ord], nil
}

func (s *MemorySortedSet) LookupTerm(term []byte) int64 {
	i := sort.Search(len(s.dict), func(i int) bool { return bytes.Compare(s.dict[i], term) >= 0 })
	if i < len(s.dict) && bytes.Equal(s.dict[i], term) {
		return int64(i)
	}
	return -1
}

func (s *MemorySortedSet) ValueCount() int64 { return int64(len(s.dict)) }

// AsSingleValued implements the singleValued capability: a MemorySortedSet
// is single-valued iff every document in docs has at most one ordinal.
func (s *MemorySortedSet) AsSingleValued() (SortedDocValues, bool) {
	for _, ords := range s.docs {
		if len(ords) > 1 {
			return nil, false
		}
	}
	return &memorySortedSingleton{parent: s}, true
}

type memorySortedSingleton struct {
	parent *MemorySortedSet
	ord    int64
}

func (s *memorySortedSingleton) AdvanceExact(doc int) (bool, error) {
	ords, ok := s.parent.docs[doc]
	if !ok || len(ords) == 0 {
		return false, nil
	}
	s.ord = ords[0]
	return true, nil
}

func (s *memorySortedSingleton) OrdValue() int64 { return s.ord }

func (s *memorySortedSingleton) LookupOrd(ord int64) ([]byte, error) { return s.parent.LookupOrd(ord) }

func (s *memorySortedSingleton) ValueCount() int64 { return s.parent.ValueCount() }

// MemoryBinary is a reference, in-memory BinaryDocValues for a single
// segment, backed by a map of doc -> packed bytes.
type MemoryBinary struct {
	values map[int][]byte
	cur    []byte
}

// NewMemoryBinary builds a MemoryBinary from a per-document byte-slice map.
func NewMemoryBinary(values map[int][]byte) *MemoryBinary {
	return &MemoryBinary{values: values}
}

func (b *MemoryBinary) AdvanceExact(doc int) (bool, error) {
	v, ok := b.values[doc]
	b.cur = v
	return ok, nil
}

func (b *MemoryBinary) BinaryValue() []byte { return b.cur }
