// Package docvalues defines the doc-values and matching-docs contracts
// consumed by the counting engines (spec.md §6, "Doc-values contract
// (consumed)" and "Collector contract (consumed)"), plus in-memory reference
// implementations used by fixture and by the package tests of the engines
// that sit on top of this one.
package docvalues

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// NoMoreOrds terminates a per-document NextOrd() iteration, mirroring
// SortedSetDocValues.NO_MORE_ORDS.
const NoMoreOrds = int64(-1)

// SortedSetDocValues is a dictionary-coded, possibly multi-valued string set
// per document (spec.md §6).
type SortedSetDocValues interface {
	// AdvanceExact positions the iterator on doc, returning false if doc has
	// no value. Ord iteration for the positioned doc starts at NextOrd.
	AdvanceExact(doc int) (bool, error)

	// NextOrd returns the current document's next ordinal, or NoMoreOrds.
	NextOrd() int64

	// LookupOrd returns the UTF-8 label for ord.
	LookupOrd(ord int64) ([]byte, error)

	// LookupTerm returns term's ordinal, or -1 if the dictionary has no such
	// term.
	LookupTerm(term []byte) int64

	// ValueCount returns the dictionary size.
	ValueCount() int64
}

// SortedDocValues is the single-valued specialisation that
// UnwrapSingleton produces when every document has at most one ordinal
// (spec.md §4.5 step 1, "attempt to unwrap to single-valued dv for speed").
type SortedDocValues interface {
	AdvanceExact(doc int) (bool, error)
	OrdValue() int64
	LookupOrd(ord int64) ([]byte, error)
	ValueCount() int64
}

// singleValued is an optional capability a SortedSetDocValues implementation
// exposes when it happens to be single-valued, letting UnwrapSingleton avoid
// a generic multi-valued iteration loop per document.
type singleValued interface {
	AsSingleValued() (SortedDocValues, bool)
}

// UnwrapSingleton returns dv's single-valued view if dv supports it.
func UnwrapSingleton(dv SortedSetDocValues) (SortedDocValues, bool) {
	if sv, ok := dv.(singleValued); ok {
		return sv.AsSingleValued()
	}
	return nil, false
}

// BinaryDocValues is a per-document opaque byte array (spec.md §6).
type BinaryDocValues interface {
	AdvanceExact(doc int) (bool, error)
	BinaryValue() []byte
}

// LongValues maps an index to an int64, the shape OrdinalMap.GlobalOrds
// returns for a given segment.
type LongValues interface {
	Get(index int64) int64
}

// OrdinalMap translates per-segment ordinals into the global ordinal space
// shared by every segment of a reader (spec.md §3, "global ordinal map").
type OrdinalMap interface {
	GlobalOrds(segmentOrd int) LongValues
}

// IdentityLongValues is the identity mapping, used when a reader has a
// single segment and no remapping is needed (spec.md §4.5 step 5).
type IdentityLongValues struct{}

func (IdentityLongValues) Get(index int64) int64 { return index }

// ArrayOrdinalMap is a reference OrdinalMap backed by one []int64 per
// segment: ArrayOrdinalMap[segOrd][localOrd] = globalOrd.
type ArrayOrdinalMap [][]int64

func (m ArrayOrdinalMap) GlobalOrds(segmentOrd int) LongValues {
	return arrayLongValues(m[segmentOrd])
}

type arrayLongValues []int64

func (v arrayLongValues) Get(index int64) int64 { return v[index] }

// LeafContext identifies a single segment's position within its parent
// reader, and carries the top-level reader's identity so engines can detect
// a ReaderState built against a different reader (spec.md §7, "Reader
// mismatch").
type LeafContext struct {
	// Ord is the segment's position among reader.Leaves().
	Ord int
	// DocBase is the segment's first doc ID in the reader-wide doc space.
	DocBase int
	// TopLevelReaderKey identifies the top-level reader this leaf belongs to.
	TopLevelReaderKey any
}

// MatchingDocs is the collector contract consumed by every counting engine
// (spec.md §6): one segment's bitset of matching documents, plus how many
// hits it represents (totalHits may exceed the bitset's cardinality only if
// a fast-match query already filtered; within this core the two agree).
type MatchingDocs struct {
	Context   LeafContext
	Bits      *roaring.Bitmap
	TotalHits int
}

// Iterator returns an ascending iterator over doc in this segment's
// bitset, already translated into segment-local doc IDs (Bits stores
// segment-local IDs, matching how MatchingDocs is populated per segment).
func (m *MatchingDocs) Iterator() roaring.IntIterable {
	if m.Bits == nil {
		return roaring.NewBitmap().Iterator()
	}
	return m.Bits.Iterator()
}

// ErrReaderMismatch is returned when a MatchingDocs' top-level reader
// identity does not match the reader a ReaderState (or counting engine) was
// built against (spec.md §7).
var ErrReaderMismatch = fmt.Errorf("docvalues: matching docs reader does not match the reader this state was built from")
