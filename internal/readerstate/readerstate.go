// Package readerstate implements the second half of component C4 (spec.md
// §4.4): ReaderState ties a sorted-set dictionary's flat-or-hierarchical
// ordinal layout together with a lazily-resolved, cached cross-segment
// ordinal map, and exposes the reader-mismatch check named in spec.md §7.
package readerstate

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"facetcore/internal/docvalues"
	"facetcore/internal/ordinal"
)

// ErrWrongDocValuesKind is a configuration error for a field that is absent
// or was not indexed with SortedSetDocValues (spec.md §4.4 "Failure
// semantics").
var ErrWrongDocValuesKind = fmt.Errorf("readerstate: field was not indexed with SortedSetDocValues")

// ErrDictionaryTooLarge is a configuration error for a dictionary exceeding
// the dense int32 ordinal space (spec.md §4.4, "dictionary size > INT_MAX ->
// fatal").
var ErrDictionaryTooLarge = fmt.Errorf("readerstate: dictionary size exceeds the maximum ordinal space")

// ErrNotHierarchical and ErrNotFlat are the "data-model mismatch" errors
// from spec.md §7 ("a flat call against a hierarchical state, or vice
// versa, is a configuration error").
var (
	ErrNotHierarchical = fmt.Errorf("readerstate: this operation requires a hierarchical field")
	ErrNotFlat         = fmt.Errorf("readerstate: this operation requires a flat field")
)

const maxOrdinal = int64(1)<<31 - 1

// ReaderState is the immutable, reusable-across-queries state built once per
// reader open (spec.md §3 "Lifecycles"). It is safe to share across threads
// for read-only queries so long as each query derives its own counter array
// (spec.md §5).
type ReaderState struct {
	field        string
	hierarchical bool
	readerKey    any

	segments []docvalues.SortedSetDocValues

	group     singleflight.Group
	mu        sync.Mutex
	resolved  bool
	dict      [][]byte
	ordMap    docvalues.OrdinalMap
	tree      *ordinal.Tree
	flat      map[string]ordinal.OrdRange
}

// NewReaderState builds a ReaderState for field across the given segments
// (one SortedSetDocValues per segment of readerKey's reader, in segment
// order). hierarchical selects flat vs. hierarchical dictionary construction
// (spec.md §4.4). The dictionary and, for the hierarchical case, the ordinal
// tree are resolved synchronously here — spec.md §9 notes eager resolution
// is an acceptable implementation of "lazy ordinal map caching", and the
// constructor needs the merged dictionary immediately regardless.
func NewReaderState(readerKey any, field string, hierarchical bool, segments []docvalues.SortedSetDocValues) (*ReaderState, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments for field %q", ErrWrongDocValuesKind, field)
	}
	rs := &ReaderState{
		field:        field,
		hierarchical: hierarchical,
		readerKey:    readerKey,
		segments:     segments,
	}
	if _, err := rs.GetOrdinalMap(); err != nil {
		return nil, err
	}
	return rs, nil
}

// GetOrdinalMap lazily resolves (and thereafter returns the cached) mapping
// from each segment's local ordinals into this state's global ordinal space
// (spec.md §4.4, "Cross-segment ordinal map is lazily resolved on first
// getDocValues() call; cached when the reader's cache key is stable").
// Concurrent callers before the first resolution share a single build via
// singleflight.
func (rs *ReaderState) GetOrdinalMap() (docvalues.OrdinalMap, error) {
	rs.mu.Lock()
	if rs.resolved {
		defer rs.mu.Unlock()
		return rs.ordMap, nil
	}
	rs.mu.Unlock()

	v, err, _ := rs.group.Do("ordmap", func() (any, error) {
		rs.mu.Lock()
		if rs.resolved {
			rs.mu.Unlock()
			return rs.ordMap, nil
		}
		rs.mu.Unlock()

		dict, localToGlobal, err := mergeDictionaries(rs.segments)
		if err != nil {
			return nil, err
		}
		if int64(len(dict)) > maxOrdinal {
			return nil, fmt.Errorf("%w: got %d", ErrDictionaryTooLarge, len(dict))
		}

		globalDV := docvalues.NewMemorySortedSet(dict, nil)
		var tree *ordinal.Tree
		var flat map[string]ordinal.OrdRange
		if rs.hierarchical {
			tree, err = ordinal.BuildTree(globalDV)
		} else {
			flat, err = ordinal.BuildFlatLayout(globalDV)
		}
		if err != nil {
			return nil, err
		}

		ordMap := docvalues.ArrayOrdinalMap(localToGlobal)

		rs.mu.Lock()
		rs.dict, rs.ordMap, rs.tree, rs.flat, rs.resolved = dict, ordMap, tree, flat, true
		rs.mu.Unlock()
		return ordMap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(docvalues.OrdinalMap), nil
}

// Field returns the indexed field name.
func (rs *ReaderState) Field() string { return rs.field }

// IsHierarchical reports whether this state uses the hierarchical layout.
func (rs *ReaderState) IsHierarchical() bool { return rs.hierarchical }

// Size returns the dictionary's value count (number of unique labels).
func (rs *ReaderState) Size() int64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return int64(len(rs.dict))
}

// Single returns true when this state has exactly one segment, in which
// case the ordinal map is the identity and remapping can be skipped
// (spec.md §4.5 step 5).
func (rs *ReaderState) Single() bool { return len(rs.segments) == 1 }

// LookupOrd returns the UTF-8 label for ord in the global dictionary.
func (rs *ReaderState) LookupOrd(ord int64) ([]byte, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if ord < 0 || int(ord) >= len(rs.dict) {
		return nil, fmt.Errorf("readerstate: ordinal %d out of range [0,%d)", ord, len(rs.dict))
	}
	return rs.dict[ord], nil
}

// LookupTerm returns term's global ordinal, or -1 if absent.
func (rs *ReaderState) LookupTerm(term []byte) int64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	i := sort.Search(len(rs.dict), func(i int) bool { return bytes.Compare(rs.dict[i], term) >= 0 })
	if i < len(rs.dict) && bytes.Equal(rs.dict[i], term) {
		return int64(i)
	}
	return -1
}

// Tree returns the hierarchical ordinal tree. Returns ErrNotHierarchical for
// a flat state.
func (rs *ReaderState) Tree() (*ordinal.Tree, error) {
	if !rs.hierarchical {
		return nil, ErrNotHierarchical
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.tree, nil
}

// FlatLayout returns the dim -> OrdRange map. Returns ErrNotFlat for a
// hierarchical state.
func (rs *ReaderState) FlatLayout() (map[string]ordinal.OrdRange, error) {
	if rs.hierarchical {
		return nil, ErrNotFlat
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.flat, nil
}

// ChildOrds delegates to the hierarchical tree. Returns ErrNotHierarchical
// for a flat state.
func (rs *ReaderState) ChildOrds(pathOrd int64) ([]int64, error) {
	tree, err := rs.Tree()
	if err != nil {
		return nil, err
	}
	return tree.ChildOrds(pathOrd), nil
}

// VerifyReader implements the reader-mismatch check from spec.md §7: a
// MatchingDocs whose top-level reader differs from the one this state was
// built against is a configuration error.
func (rs *ReaderState) VerifyReader(ctx docvalues.LeafContext) error {
	if ctx.TopLevelReaderKey != rs.readerKey {
		return docvalues.ErrReaderMismatch
	}
	return nil
}

// Segment returns the SortedSetDocValues for segment i, as supplied at
// construction — the per-query counting engines call this once per matching
// segment (spec.md §4.5 step 1).
func (rs *ReaderState) Segment(i int) docvalues.SortedSetDocValues { return rs.segments[i] }

// mergeDictionaries performs a k-way merge of each segment's sorted
// dictionary into one deduplicated global dictionary, returning, per
// segment, the array mapping each local ordinal to its global ordinal
// (spec.md §3, "A global ordinal map translates per-segment ords to a
// single global ord space").
func mergeDictionaries(segments []docvalues.SortedSetDocValues) (merged [][]byte, localToGlobal [][]int64, err error) {
	dicts := make([][][]byte, len(segments))
	for i, seg := range segments {
		n := seg.ValueCount()
		dict := make([][]byte, n)
		for ord := int64(0); ord < n; ord++ {
			term, err := seg.LookupOrd(ord)
			if err != nil {
				return nil, nil, err
			}
			dict[ord] = append([]byte(nil), term...)
		}
		dicts[i] = dict
	}

	localToGlobal = make([][]int64, len(segments))
	positions := make([]int, len(segments))
	for i := range segments {
		localToGlobal[i] = make([]int64, len(dicts[i]))
	}

	for {
		minIdx := -1
		for i, pos := range positions {
			if pos >= len(dicts[i]) {
				continue
			}
			if minIdx == -1 || bytes.Compare(dicts[i][pos], dicts[minIdx][positions[minIdx]]) < 0 {
				minIdx = i
			}
		}
		if minIdx == -1 {
			break
		}
		term := dicts[minIdx][positions[minIdx]]
		globalOrd := int64(len(merged))
		merged = append(merged, term)
		for i, pos := range positions {
			if pos < len(dicts[i]) && bytes.Equal(dicts[i][pos], term) {
				localToGlobal[i][pos] = globalOrd
				positions[i]++
			}
		}
	}

	return merged, localToGlobal, nil
}
