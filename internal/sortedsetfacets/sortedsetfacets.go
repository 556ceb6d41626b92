// Package sortedsetfacets implements the ordinal counting engine (spec.md
// §4.5, component C5): per-segment counting into a global-ord counter
// array with a density-based dense/sparse strategy, and the getTopChildren/
// getAllDims/getAllChildren result operations.
package sortedsetfacets

import (
	"facetcore/internal/docvalues"
	"facetcore/internal/facetconfig"
	"facetcore/internal/facetresult"
	"facetcore/internal/ordinal"
	"facetcore/internal/readerstate"
)

// Options narrows facetconfig.Options for this engine; no engine-specific
// fields are needed beyond the shared density threshold and logger.
type Options struct {
	facetconfig.Options
}

// DefaultOptions returns the shared defaults.
func DefaultOptions() Options {
	return Options{Options: facetconfig.DefaultOptions()}
}

// OrdinalFacetCounts is the per-query counter holder (spec.md §6,
// "new OrdinalFacetCounts(state, hits?)").
type OrdinalFacetCounts struct {
	state    *readerstate.ReaderState
	counts   []int64
	totCount int64
	opts     Options
}

// NewOrdinalFacetCounts tallies hits against state. hits must cover every
// segment to be counted — hit-harvesting (including a "match everything"
// collector) is an external collaborator per spec.md §1; fixture provides a
// MatchAll helper for browse-only counting.
func NewOrdinalFacetCounts(state *readerstate.ReaderState, hits []docvalues.MatchingDocs, opts Options) (*OrdinalFacetCounts, error) {
	c := &OrdinalFacetCounts{
		state: state,
		counts: make([]int64, state.Size()),
		opts:  opts,
	}
	if opts.DensityThreshold <= 0 {
		c.opts.DensityThreshold = facetconfig.DefaultDensityThreshold
	}
	for _, h := range hits {
		if err := state.VerifyReader(h.Context); err != nil {
			opts.Log().Warn("readerstate mismatch", "field", state.Field(), "segment", h.Context.Ord)
			return nil, err
		}
		if err := c.countOneSegment(h); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *OrdinalFacetCounts) countOneSegment(hits docvalues.MatchingDocs) error {
	segOrd := hits.Context.Ord
	dv := c.state.Segment(segOrd)
	numSegOrds := dv.ValueCount()
	single, isSingle := docvalues.UnwrapSingleton(dv)

	var globalOrds docvalues.LongValues = docvalues.IdentityLongValues{}
	useDense := false
	if !c.state.Single() {
		ordMap, err := c.state.GetOrdinalMap()
		if err != nil {
			return err
		}
		globalOrds = ordMap.GlobalOrds(segOrd)
		useDense = !(numSegOrds > 0 && int64(hits.TotalHits) < numSegOrds/int64(c.opts.DensityThreshold))
	}

	readOrds := func(doc int) ([]int64, bool) {
		if isSingle {
			found, _ := single.AdvanceExact(doc)
			if !found {
				return nil, false
			}
			return []int64{single.OrdValue()}, true
		}
		found, _ := dv.AdvanceExact(doc)
		if !found {
			return nil, false
		}
		var ords []int64
		for ord := dv.NextOrd(); ord != docvalues.NoMoreOrds; ord = dv.NextOrd() {
			ords = append(ords, ord)
		}
		return ords, len(ords) > 0
	}

	if c.state.Single() || !useDense {
		// Identity mapping, or sparse: remap every visited ord to global as
		// we iterate (spec.md §4.5 steps 3 and 5).
		return c.countSparseOrIdentity(hits, readOrds, globalOrds)
	}

	// Dense: tally into a seg-local array first, then migrate the non-zero
	// entries into the global counts array (spec.md §4.5 step 4).
	segCounts := make([]int64, numSegOrds)
	it := hits.Iterator()
	for it.HasNext() {
		doc := int(it.Next())
		ords, found := readOrds(doc)
		if !found {
			continue
		}
		for _, ord := range ords {
			segCounts[ord]++
		}
		c.totCount++
	}
	for ord, cnt := range segCounts {
		if cnt != 0 {
			c.counts[globalOrds.Get(int64(ord))] += cnt
		}
	}
	return nil
}

// countSparseOrIdentity remaps every visited ordinal to the global space as
// it iterates, used for the identity (single-segment) case and the sparse
// branch of the density heuristic (spec.md §4.5 steps 3 and 5).
func (c *OrdinalFacetCounts) countSparseOrIdentity(hits docvalues.MatchingDocs, readOrds func(doc int) ([]int64, bool), globalOrds docvalues.LongValues) error {
	it := hits.Iterator()
	for it.HasNext() {
		doc := int(it.Next())
		ords, found := readOrds(doc)
		if !found {
			continue
		}
		matched := false
		for _, ord := range ords {
			c.counts[globalOrds.Get(ord)]++
			matched = true
		}
		if matched {
			c.totCount++
		}
	}
	return nil
}

// TotCount returns the number of distinct matching docs that contributed at
// least one count (spec.md §3, property 1).
func (c *OrdinalFacetCounts) TotCount() int64 { return c.totCount }

// GetTopChildren returns the top-N children of dim/path by count, or nil if
// dim/path was never indexed or none of its children has a non-zero count
// (spec.md §4.5 "Boundary").
func (c *OrdinalFacetCounts) GetTopChildren(topN int, dim string, path ...string) (*facetresult.FacetResult, error) {
	if err := facetresult.ValidateTopN(topN); err != nil {
		return nil, err
	}
	childOrds, value, ok, err := c.resolve(dim, path)
	if err != nil || !ok {
		return nil, err
	}
	return c.buildTopN(dim, path, value, childOrds, topN)
}

// GetAllChildren returns every non-zero child of dim/path in dictionary
// order, with no top-N truncation (supplemented feature, grounded on
// Lucene's SortedSetDocValuesFacetCounts alongside its top-K form).
func (c *OrdinalFacetCounts) GetAllChildren(dim string, path ...string) (*facetresult.FacetResult, error) {
	childOrds, value, ok, err := c.resolve(dim, path)
	if err != nil || !ok {
		return nil, err
	}
	var labelValues []facetresult.LabelAndValue
	childCount := 0
	for _, ord := range childOrds {
		cnt := c.counts[ord]
		if cnt == 0 {
			continue
		}
		childCount++
		label, err := c.state.LookupOrd(ord)
		if err != nil {
			return nil, err
		}
		parts := ordinal.StringToPath(string(label))
		labelValues = append(labelValues, facetresult.LabelAndValue{Label: parts[len(parts)-1], Value: cnt})
	}
	return &facetresult.FacetResult{Dim: dim, Path: path, Value: value, LabelValues: labelValues, ChildCount: childCount}, nil
}

// GetAllDims returns one top-N entry per root dimension, sorted by (value
// desc, dim asc) (spec.md §4.8).
func (c *OrdinalFacetCounts) GetAllDims(topN int) ([]facetresult.FacetResult, error) {
	if err := facetresult.ValidateTopN(topN); err != nil {
		return nil, err
	}
	var results []facetresult.FacetResult
	if c.state.IsHierarchical() {
		tree, err := c.state.Tree()
		if err != nil {
			return nil, err
		}
		for _, d := range tree.Dims {
			fr, err := c.buildTopN(d.Dim, nil, c.counts[d.Ord], tree.ChildOrds(d.Ord), topN)
			if err != nil {
				return nil, err
			}
			if fr != nil {
				results = append(results, *fr)
			}
		}
	} else {
		layout, err := c.state.FlatLayout()
		if err != nil {
			return nil, err
		}
		for dim, r := range layout {
			childOrds, value := rangeOrds(r)
			fr, err := c.buildTopN(dim, nil, value.sum(c.counts), childOrds, topN)
			if err != nil {
				return nil, err
			}
			if fr != nil {
				results = append(results, *fr)
			}
		}
	}
	facetresult.SortByValueDescDimAsc(results)
	return results, nil
}

// resolve turns (dim, path) into its child ordinals and its own value,
// honoring the flat/hierarchical data model (spec.md §4.4/§4.8). ok is false
// when dim/path was never indexed (spec.md "unknown dim -> return null").
func (c *OrdinalFacetCounts) resolve(dim string, path []string) (childOrds []int64, value int64, ok bool, err error) {
	if c.state.IsHierarchical() {
		pathOrd := c.state.LookupTerm([]byte(ordinal.PathToString(dim, path...)))
		if pathOrd == -1 {
			return nil, 0, false, nil
		}
		childOrds, err = c.state.ChildOrds(pathOrd)
		if err != nil {
			return nil, 0, false, err
		}
		return childOrds, c.counts[pathOrd], true, nil
	}
	if err := facetresult.ValidatePathEmpty(path); err != nil {
		return nil, 0, false, err
	}
	layout, err := c.state.FlatLayout()
	if err != nil {
		return nil, 0, false, err
	}
	r, found := layout[dim]
	if !found {
		return nil, 0, false, nil
	}
	ords, val := rangeOrds(r)
	return ords, val.sum(c.counts), true, nil
}

func (c *OrdinalFacetCounts) buildTopN(dim string, path []string, value int64, childOrds []int64, topN int) (*facetresult.FacetResult, error) {
	heap := facetresult.NewTopNHeap(topN)
	childCount := 0
	for _, ord := range childOrds {
		cnt := c.counts[ord]
		if cnt <= 0 {
			continue
		}
		childCount++
		label, err := c.state.LookupOrd(ord)
		if err != nil {
			return nil, err
		}
		parts := ordinal.StringToPath(string(label))
		heap.Offer(ord, parts[len(parts)-1], cnt)
	}
	if heap.Len() == 0 {
		return nil, nil
	}
	return &facetresult.FacetResult{Dim: dim, Path: path, Value: value, LabelValues: heap.PopAllDescending(), ChildCount: childCount}, nil
}

// ordRangeOrds is a marker type letting rangeOrds return both the ordinal
// slice and a lazily-summable view without forcing every caller to re-walk
// the range.
type ordRangeOrds struct{ ords []int64 }

func (o ordRangeOrds) sum(counts []int64) int64 {
	var total int64
	for _, ord := range o.ords {
		total += counts[ord]
	}
	return total
}

func rangeOrds(r ordinal.OrdRange) ([]int64, ordRangeOrds) {
	ords := make([]int64, 0, r.End-r.Start+1)
	for ord := r.Start; ord <= r.End; ord++ {
		ords = append(ords, ord)
	}
	return ords, ordRangeOrds{ords: ords}
}
