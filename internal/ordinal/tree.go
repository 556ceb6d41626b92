package ordinal

import (
	"fmt"

	"facetcore/internal/docvalues"
)

// InvalidOrdinal marks the absence of a sibling/child ordinal (spec.md §3).
const InvalidOrdinal int64 = -1

// OrdRange is an inclusive [Start, End] run of ordinals belonging to one
// flat dimension.
type OrdRange struct {
	Start, End int64
}

// DimAndOrd names a root dimension and the ordinal of its dictionary entry.
type DimAndOrd struct {
	Dim string
	Ord int64
}

// Tree is the hierarchical ordinal structure derived once from a sorted-set
// dictionary (spec.md §3, "Ordinal tree (hierarchical)").
type Tree struct {
	// HasChildren[ord] is set iff ord has >= 1 child; the child is ord+1.
	HasChildren []bool
	// Siblings[ord] is the next sibling at the same depth/parent, or
	// InvalidOrdinal.
	Siblings []int64
	// Dims lists the root ordinal of every top-level dimension, in
	// dictionary order.
	Dims []DimAndOrd
}

// ChildOrds returns pathOrd's children in dictionary order: pathOrd+1 (if
// HasChildren[pathOrd]) then walking Siblings until InvalidOrdinal (spec.md
// §4.4, "Child iteration").
func (t *Tree) ChildOrds(pathOrd int64) []int64 {
	if pathOrd < 0 || int(pathOrd) >= len(t.HasChildren) || !t.HasChildren[pathOrd] {
		return nil
	}
	var out []int64
	ord := pathOrd + 1
	out = append(out, ord)
	for t.Siblings[ord] != InvalidOrdinal {
		ord = t.Siblings[ord]
		out = append(out, ord)
	}
	return out
}

// stackEntry is an ord awaiting sibling resolution (spec.md §4.4 step 3,
// "stack of (ord, pathComponents)"; spec.md §9 requires an owned stack
// rather than recursion).
type stackEntry struct {
	ord  int64
	path []string
}

// BuildTree performs the single forward scan over dv's dictionary described
// in spec.md §4.4 ("Hierarchical construction"), producing the hasChildren/
// siblings/dims arrays.
func BuildTree(dv docvalues.SortedSetDocValues) (*Tree, error) {
	valueCount := dv.ValueCount()
	tree := &Tree{
		HasChildren: make([]bool, valueCount),
		Siblings:    make([]int64, valueCount),
	}

	var stack []stackEntry
	var nextComponents []string

	for ord := int64(0); ord < valueCount; ord++ {
		var components []string
		if nextComponents == nil {
			term, err := dv.LookupOrd(ord)
			if err != nil {
				return nil, err
			}
			components = StringToPath(string(term))
		} else {
			components = nextComponents
		}

		if len(components) == 1 {
			tree.Dims = append(tree.Dims, DimAndOrd{Dim: components[0], Ord: ord})
		}

		for len(stack) > 0 && len(stack[len(stack)-1].path) >= len(components) {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(top.path) > len(components) {
				tree.Siblings[top.ord] = InvalidOrdinal
				continue
			}
			if samePrefix(top.path, components) {
				tree.Siblings[top.ord] = ord
			} else {
				tree.Siblings[top.ord] = InvalidOrdinal
			}
		}

		if ord+1 == valueCount {
			tree.Siblings[ord] = InvalidOrdinal
			break
		}

		term, err := dv.LookupOrd(ord + 1)
		if err != nil {
			return nil, err
		}
		nextComponents = StringToPath(string(term))

		switch {
		case len(components) < len(nextComponents):
			tree.HasChildren[ord] = true
			stack = append(stack, stackEntry{ord: ord, path: components})
		case len(components) == len(nextComponents):
			tree.Siblings[ord] = ord + 1
		default:
			tree.Siblings[ord] = InvalidOrdinal
		}
	}

	for _, entry := range stack {
		tree.Siblings[entry.ord] = InvalidOrdinal
	}

	return tree, nil
}

// samePrefix reports whether a and b share every component up to a's last
// index (the two entries agree on their parent path).
func samePrefix(a, b []string) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ErrNonFlatPath is returned by BuildFlatLayout when a dictionary label
// does not resolve to exactly two path components (spec.md §4.4, "flat
// construction hitting a non-2-component path -> fatal").
var ErrNonFlatPath = fmt.Errorf("ordinal: flat dimension not configured for hierarchical labels")

// BuildFlatLayout performs the single forward scan described in spec.md
// §4.4 ("Flat construction"): every label must have exactly two components
// (dim, value); the result maps each dim to its contiguous ordinal run.
func BuildFlatLayout(dv docvalues.SortedSetDocValues) (map[string]OrdRange, error) {
	valueCount := dv.ValueCount()
	layout := make(map[string]OrdRange)

	lastDim := ""
	haveLastDim := false
	startOrd := int64(-1)

	for ord := int64(0); ord < valueCount; ord++ {
		term, err := dv.LookupOrd(ord)
		if err != nil {
			return nil, err
		}
		components := StringToPath(string(term))
		if len(components) != 2 {
			return nil, fmt.Errorf("%w: got %v (%q)", ErrNonFlatPath, components, term)
		}
		if !haveLastDim || components[0] != lastDim {
			if haveLastDim {
				layout[lastDim] = OrdRange{Start: startOrd, End: ord - 1}
			}
			startOrd = ord
			lastDim = components[0]
			haveLastDim = true
		}
	}

	if haveLastDim {
		layout[lastDim] = OrdRange{Start: startOrd, End: valueCount - 1}
	}

	return layout, nil
}
