// Package facetsetcounts implements the facet-set counting engine (spec.md
// §4.6, component C6): per-doc tuple decoding against a fixed matcher
// catalog, with a byte-level fast path alongside the decoded-long path.
package facetsetcounts

import (
	"errors"
	"fmt"

	"facetcore/internal/docvalues"
	"facetcore/internal/facetresult"
	"facetcore/internal/facetsetmatch"
	"facetcore/internal/sortenc"
)

// ErrDimsMismatch is returned when a field's encoded numDims does not match
// the matcher catalog's shared dimensionality (spec.md §4.6 "Failure").
var ErrDimsMismatch = errors.New("facetsetcounts: field numDims does not match matcher dims")

// ErrInconsistentNumDims is returned when two documents of the same field
// disagree on numDims (spec.md §4.6 step 1, "all docs in a field share
// dimensionality").
var ErrInconsistentNumDims = errors.New("facetsetcounts: numDims differs across documents of the same field")

// Segments supplies one BinaryDocValues per segment ordinal; a segment
// absent from the map (or mapped to nil) is treated as the field being
// unindexed there — zero counts, no error (spec.md §4.6 "Failure").
type Segments map[int]docvalues.BinaryDocValues

// FacetSetCounts is the per-query counter holder for a fixed matcher
// catalog against one binary-doc-values field (spec.md §6, "new
// FacetSetCounts(field, hits, countBytes, matchers…)").
type FacetSetCounts struct {
	field      string
	matchers   []facetsetmatch.Matcher
	dims       int
	countBytes bool

	counts   []int64
	totCount int64

	haveNumDims bool
	numDims     int
	scratch     []int64
}

// NewFacetSetCounts validates the matcher catalog and tallies hits. readerKey
// must match every hit's LeafContext.TopLevelReaderKey (spec.md §7 "Reader
// mismatch").
func NewFacetSetCounts(readerKey any, field string, matchers []facetsetmatch.Matcher, countBytes bool, segments Segments, hits []docvalues.MatchingDocs) (*FacetSetCounts, error) {
	if err := facetsetmatch.ValidateConsistentDims(matchers); err != nil {
		return nil, err
	}
	c := &FacetSetCounts{
		field:      field,
		matchers:   matchers,
		dims:       matchers[0].Dims(),
		countBytes: countBytes,
		counts:     make([]int64, len(matchers)),
	}
	for _, h := range hits {
		if h.Context.TopLevelReaderKey != readerKey {
			return nil, docvalues.ErrReaderMismatch
		}
		bdv := segments[h.Context.Ord]
		if bdv == nil {
			continue
		}
		if err := c.countOneSegment(bdv, h); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *FacetSetCounts) countOneSegment(bdv docvalues.BinaryDocValues, hits docvalues.MatchingDocs) error {
	it := hits.Iterator()
	for it.HasNext() {
		doc := int(it.Next())
		found, err := bdv.AdvanceExact(doc)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		payload := bdv.BinaryValue()
		if len(payload) < 8 {
			continue
		}
		numDims := int(sortenc.GetUint64BE(payload, 0))
		if err := c.checkNumDims(numDims); err != nil {
			return err
		}
		tupleWidth := numDims * 8
		matchedDoc := false
		for start := 8; start+tupleWidth <= len(payload); start += tupleWidth {
			if c.matchTuple(payload, start, numDims) {
				matchedDoc = true
			}
		}
		if matchedDoc {
			c.totCount++
		}
	}
	return nil
}

func (c *FacetSetCounts) checkNumDims(numDims int) error {
	if !c.haveNumDims {
		c.haveNumDims = true
		c.numDims = numDims
		if numDims != c.dims {
			return fmt.Errorf("%w: field %q has numDims %d, matchers expect %d", ErrDimsMismatch, c.field, numDims, c.dims)
		}
		return nil
	}
	if numDims != c.numDims {
		return fmt.Errorf("%w: field %q got %d, expected %d", ErrInconsistentNumDims, c.field, numDims, c.numDims)
	}
	return nil
}

// matchTuple evaluates every matcher against the tuple at payload[start:],
// incrementing matcher counts and returning whether any matcher accepted it
// (spec.md §4.6 step 3, "all matchers are tested for every tuple").
func (c *FacetSetCounts) matchTuple(payload []byte, start, numDims int) bool {
	matched := false
	if c.countBytes {
		var vals []int64
		for i, m := range c.matchers {
			var ok bool
			if bm, isByte := m.(facetsetmatch.ByteMatcher); isByte {
				ok = bm.MatchesBytes(payload, start, numDims)
			} else {
				if vals == nil {
					vals = c.decodeTuple(payload, start, numDims)
				}
				ok = m.Matches(vals)
			}
			if ok {
				c.counts[i]++
				matched = true
			}
		}
		return matched
	}
	vals := c.decodeTuple(payload, start, numDims)
	for i, m := range c.matchers {
		if m.Matches(vals) {
			c.counts[i]++
			matched = true
		}
	}
	return matched
}

func (c *FacetSetCounts) decodeTuple(payload []byte, start, numDims int) []int64 {
	if cap(c.scratch) < numDims {
		c.scratch = make([]int64, numDims)
	}
	vals := c.scratch[:numDims]
	for i := 0; i < numDims; i++ {
		vals[i] = sortenc.GetSortableLong(payload, start+i*8)
	}
	return vals
}

// TotCount returns the number of distinct matching docs with at least one
// tuple accepted by at least one matcher (spec.md §4.6 step 3).
func (c *FacetSetCounts) TotCount() int64 { return c.totCount }

// Count returns the tally for the matcher at index i, in registration order.
func (c *FacetSetCounts) Count(i int) int64 { return c.counts[i] }

// GetTopChildren returns every matcher with a non-zero count, in matcher
// registration order. Despite the name, this does not apply a top-N cutoff:
// spec.md §9's open-question note preserves MatchingFacetSetsCounts'
// existing all-children behaviour rather than resolving it into real top-K.
func (c *FacetSetCounts) GetTopChildren() *facetresult.FacetResult {
	var labelValues []facetresult.LabelAndValue
	childCount := 0
	for i, m := range c.matchers {
		if c.counts[i] == 0 {
			continue
		}
		childCount++
		labelValues = append(labelValues, facetresult.LabelAndValue{Label: m.Label(), Value: c.counts[i]})
	}
	return &facetresult.FacetResult{Dim: c.field, Value: c.totCount, LabelValues: labelValues, ChildCount: childCount}
}
