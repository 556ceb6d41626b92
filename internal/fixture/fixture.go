// Package fixture provides small in-memory builders for tests across the
// counting engines: bitsets, matching-docs batches, and doc-values views.
package fixture

import (
	"github.com/RoaringBitmap/roaring/v2"

	"facetcore/internal/docvalues"
)

// Bitmap builds a roaring bitmap containing exactly docs.
func Bitmap(docs ...int) *roaring.Bitmap {
	bm := roaring.NewBitmap()
	for _, d := range docs {
		bm.Add(uint32(d))
	}
	return bm
}

// MatchAll builds a bitmap covering every doc in [0, maxDoc) — the
// "browse everything" substitute for the hit-harvesting collector that sits
// outside this module's scope.
func MatchAll(maxDoc int) *roaring.Bitmap {
	bm := roaring.NewBitmap()
	for d := 0; d < maxDoc; d++ {
		bm.Add(uint32(d))
	}
	return bm
}

// Hits wraps a bitmap into a MatchingDocs for segment segOrd of the reader
// identified by readerKey.
func Hits(readerKey any, segOrd int, docs *roaring.Bitmap) docvalues.MatchingDocs {
	return docvalues.MatchingDocs{
		Context:   docvalues.LeafContext{Ord: segOrd, TopLevelReaderKey: readerKey},
		Bits:      docs,
		TotalHits: int(docs.GetCardinality()),
	}
}

// SegFromDocs builds a single segment's SortedSetDocValues: dictLabels is
// the segment-local dictionary in sorted order, docs maps doc id to the
// local ordinals it holds.
func SegFromDocs(dictLabels []string, docs map[int][]int64) docvalues.SortedSetDocValues {
	dict := make([][]byte, len(dictLabels))
	for i, l := range dictLabels {
		dict[i] = []byte(l)
	}
	return docvalues.NewMemorySortedSet(dict, docs)
}
