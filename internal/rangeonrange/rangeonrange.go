// Package rangeonrange implements the range-on-range counting engine
// (spec.md §4.7, component C7): per-doc hyper-rectangle boxes evaluated
// against a catalog of query ranges under one spatial relation
// (INTERSECTS/CONTAINS/WITHIN/CROSSES).
package rangeonrange

import (
	"errors"
	"fmt"

	"facetcore/internal/docvalues"
	"facetcore/internal/facetresult"
	"facetcore/internal/sortenc"
)

// QueryType names the spatial relation a RangeOnRangeCounts tests between
// each query Range and a document's box (spec.md §4.7 step 3).
type QueryType int

const (
	Intersects QueryType = iota
	Contains
	Within
	Crosses
)

// ErrEmptyRange is returned when a range's per-dimension min > max.
var ErrEmptyRange = errors.New("rangeonrange: range matches nothing")

// ErrDimsMismatch is returned when two ranges (or a range and a query
// payload) disagree on dimension count.
var ErrDimsMismatch = errors.New("rangeonrange: dimension count mismatch")

// Range is a named hyper-rectangle query over dims dimensions, with a
// pre-encoded packed byte form cached for unsigned-comparator evaluation
// (spec.md §3 "Range box", §4.7 "pre-encoded packed byte form").
type Range struct {
	Label string
	Kind  sortenc.Kind
	Min   []int64
	Max   []int64

	width     int
	packedMin []byte
	packedMax []byte
}

// NewRange constructs a Range from already-normalised inclusive per-dim
// bounds in the comparable-long view (the sortable-bit-encoded form for
// float/double, the identity for long/int — see facetset.FacetSet).
func NewRange(label string, kind sortenc.Kind, min, max []int64) (*Range, error) {
	if len(min) != len(max) {
		return nil, fmt.Errorf("%w: min has %d dims, max has %d", ErrDimsMismatch, len(min), len(max))
	}
	if len(min) == 0 {
		return nil, fmt.Errorf("rangeonrange: dims must not be empty")
	}
	for i := range min {
		if min[i] > max[i] {
			return nil, fmt.Errorf("%w: label %q dim %d: min %d > max %d", ErrEmptyRange, label, i, min[i], max[i])
		}
	}
	width := sortenc.EncodedValueBytes(kind)
	r := &Range{
		Label: label, Kind: kind,
		Min: append([]int64(nil), min...), Max: append([]int64(nil), max...),
		width: width,
	}
	r.packedMin = packBox(min, kind, width)
	r.packedMax = packBox(max, kind, width)
	return r, nil
}

// Dims returns the range's dimension count.
func (r *Range) Dims() int { return len(r.Min) }

func packBox(values []int64, kind sortenc.Kind, width int) []byte {
	buf := make([]byte, len(values)*width)
	for i, v := range values {
		switch kind {
		case sortenc.KindInt, sortenc.KindFloat:
			sortenc.PutUint32BE(buf, i*width, sortenc.EncodeBiasedInt32(int32(v)))
		default:
			sortenc.PutUint64BE(buf, i*width, sortenc.EncodeBiasedInt64(v))
		}
	}
	return buf
}

// BoxReader decodes the sequence of per-doc range boxes from a binary
// doc-value payload (spec.md §6, "Range-on-range doc-value payload": dims
// mins then dims maxes, repeated per range attached to the document).
type BoxReader struct {
	dims  int
	width int
}

// NewBoxReader builds a reader for dims dimensions of the given kind.
func NewBoxReader(dims int, kind sortenc.Kind) *BoxReader {
	return &BoxReader{dims: dims, width: sortenc.EncodedValueBytes(kind)}
}

// BoxSize returns the byte length of one box (min half + max half).
func (b *BoxReader) BoxSize() int { return 2 * b.dims * b.width }

// NumBoxes returns how many complete boxes payload holds.
func (b *BoxReader) NumBoxes(payload []byte) int {
	size := b.BoxSize()
	if size == 0 {
		return 0
	}
	return len(payload) / size
}

// Box returns the min/max byte halves (each dims*width bytes) of the box at
// index boxIdx.
func (b *BoxReader) Box(payload []byte, boxIdx int) (minBytes, maxBytes []byte, ok bool) {
	size := b.BoxSize()
	start := boxIdx * size
	if start+size > len(payload) {
		return nil, nil, false
	}
	half := b.dims * b.width
	return payload[start : start+half], payload[start+half : start+size], true
}

func dimSlice(buf []byte, dim, width int) []byte { return buf[dim*width : (dim+1)*width] }

func leBytes(a, b []byte) bool { return sortenc.UnsignedCompareBytes(a, b) <= 0 }

func intersectsRel(qmin, qmax, dmin, dmax []byte, dims, width int) bool {
	for i := 0; i < dims; i++ {
		qlo, qhi := dimSlice(qmin, i, width), dimSlice(qmax, i, width)
		dlo, dhi := dimSlice(dmin, i, width), dimSlice(dmax, i, width)
		if !leBytes(qlo, dhi) || !leBytes(dlo, qhi) {
			return false
		}
	}
	return true
}

func containsRel(qmin, qmax, dmin, dmax []byte, dims, width int) bool {
	for i := 0; i < dims; i++ {
		qlo, qhi := dimSlice(qmin, i, width), dimSlice(qmax, i, width)
		dlo, dhi := dimSlice(dmin, i, width), dimSlice(dmax, i, width)
		if !leBytes(dlo, qlo) || !leBytes(qhi, dhi) {
			return false
		}
	}
	return true
}

func withinRel(qmin, qmax, dmin, dmax []byte, dims, width int) bool {
	for i := 0; i < dims; i++ {
		qlo, qhi := dimSlice(qmin, i, width), dimSlice(qmax, i, width)
		dlo, dhi := dimSlice(dmin, i, width), dimSlice(dmax, i, width)
		if !leBytes(qlo, dlo) || !leBytes(dhi, qhi) {
			return false
		}
	}
	return true
}

func relates(qt QueryType, qmin, qmax, dmin, dmax []byte, dims, width int) bool {
	switch qt {
	case Intersects:
		return intersectsRel(qmin, qmax, dmin, dmax, dims, width)
	case Contains:
		return containsRel(qmin, qmax, dmin, dmax, dims, width)
	case Within:
		return withinRel(qmin, qmax, dmin, dmax, dims, width)
	case Crosses:
		return intersectsRel(qmin, qmax, dmin, dmax, dims, width) &&
			!withinRel(qmin, qmax, dmin, dmax, dims, width) &&
			!containsRel(qmin, qmax, dmin, dmax, dims, width)
	default:
		return false
	}
}

// Segments supplies one BinaryDocValues per segment ordinal; a segment
// absent from the map is treated as the field being unindexed there — zero
// contribution, no error (spec.md §4.6's failure rule, shared by C7).
type Segments map[int]docvalues.BinaryDocValues

// RangeOnRangeCounts is the per-query counter holder (spec.md §6, "new
// RangeOnRangeCounts(field, hits, queryType, fastMatch, ranges…)"). The
// fast-match sub-query named in spec.md §4.7 is an external collaborator
// (spec.md §1) and is not modelled here; callers pre-filter hits instead.
type RangeOnRangeCounts struct {
	field     string
	queryType QueryType
	ranges    []*Range
	dims      int
	width     int
	reader    *BoxReader

	counts   []int64
	totCount int64
}

// NewRangeOnRangeCounts validates the range catalog's shared dimensionality
// and tallies hits. readerKey must match every hit's LeafContext.TopLevelReaderKey
// (spec.md §7 "Reader mismatch").
func NewRangeOnRangeCounts(readerKey any, field string, queryType QueryType, ranges []*Range, segments Segments, hits []docvalues.MatchingDocs) (*RangeOnRangeCounts, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("rangeonrange: ranges must not be empty")
	}
	dims := ranges[0].Dims()
	kind := ranges[0].Kind
	for i, r := range ranges[1:] {
		if r.Dims() != dims {
			return nil, fmt.Errorf("%w: range %d has %d dims, range 0 has %d", ErrDimsMismatch, i+1, r.Dims(), dims)
		}
	}
	c := &RangeOnRangeCounts{
		field: field, queryType: queryType, ranges: ranges,
		dims: dims, width: sortenc.EncodedValueBytes(kind),
		reader: NewBoxReader(dims, kind),
		counts: make([]int64, len(ranges)),
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

// countOneSegment implements spec.md §4.7 steps 2-5: totCount starts at the
// segment's hit count, then every doc with no value or no matching range
// lowers it by one (missingCount).
func (c *RangeOnRangeCounts) countOneSegment(bdv docvalues.BinaryDocValues, hits docvalues.MatchingDocs) error {
	c.totCount += int64(hits.TotalHits)
	var missing int64
	it := hits.Iterator()
	for it.HasNext() {
		doc := int(it.Next())
		found, err := bdv.AdvanceExact(doc)
		if err != nil {
			return err
		}
		if !found {
			missing++
			continue
		}
		payload := bdv.BinaryValue()
		matchedDoc := false
		for b, n := 0, c.reader.NumBoxes(payload); b < n; b++ {
			dmin, dmax, ok := c.reader.Box(payload, b)
			if !ok {
				continue
			}
			for i, r := range c.ranges {
				if relates(c.queryType, r.packedMin, r.packedMax, dmin, dmax, c.dims, c.width) {
					c.counts[i]++
					matchedDoc = true
				}
			}
		}
		if !matchedDoc {
			missing++
		}
	}
	c.totCount -= missing
	return nil
}

// TotCount returns the number of distinct matching docs with at least one
// box matching at least one query range (spec.md §4.7 step 5).
func (c *RangeOnRangeCounts) TotCount() int64 { return c.totCount }

// GetAllChildren returns every query range, including zero-count ones, in
// user-supplied range order, with ChildCount set to the total range count
// (spec.md §4.7 "Result assembly").
func (c *RangeOnRangeCounts) GetAllChildren() *facetresult.FacetResult {
	labelValues := make([]facetresult.LabelAndValue, len(c.ranges))
	for i, r := range c.ranges {
		labelValues[i] = facetresult.LabelAndValue{Label: r.Label, Value: c.counts[i]}
	}
	return &facetresult.FacetResult{Dim: c.field, Value: c.totCount, LabelValues: labelValues, ChildCount: len(c.ranges)}
}

// GetTopChildren returns the top-N query ranges by count, or nil if none
// matched (spec.md §4.7's tie-break: count asc/label desc in the heap,
// yielding count desc/label asc on output).
func (c *RangeOnRangeCounts) GetTopChildren(topN int) (*facetresult.FacetResult, error) {
	if err := facetresult.ValidateTopN(topN); err != nil {
		return nil, err
	}
	heap := facetresult.NewTopNHeap(topN)
	childCount := 0
	for i, r := range c.ranges {
		if c.counts[i] == 0 {
			continue
		}
		childCount++
		heap.Offer(int64(i), r.Label, c.counts[i])
	}
	if heap.Len() == 0 {
		return nil, nil
	}
	return &facetresult.FacetResult{Dim: c.field, Value: c.totCount, LabelValues: heap.PopAllDescending(), ChildCount: childCount}, nil
}

// GetAllDims mirrors C8's getAllDims for a single-field engine: one entry,
// since range-on-range has exactly one dimension (the field itself).
func (c *RangeOnRangeCounts) GetAllDims(topN int) ([]facetresult.FacetResult, error) {
	fr, err := c.GetTopChildren(topN)
	if err != nil || fr == nil {
		return nil, err
	}
	return []facetresult.FacetResult{*fr}, nil
}
