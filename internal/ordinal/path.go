// Package ordinal builds the flat dim→ord-range map and the hierarchical
// ordinal tree (hasChildren/siblings/dims) from a sorted-set dictionary
// (spec.md §4.4, component C4), plus the path string codec used to encode a
// dim/value or dim/seg1/…/segK label into the dictionary's sort space.
package ordinal

import "strings"

// delimChar separates path components in the encoded dictionary label.
// escapeChar escapes a literal delimChar or escapeChar occurring inside a
// component, matching the library's existing taxonomy label encoding
// (spec.md §6, "Implementers must preserve the library's existing
// separator/escape rules exactly").
const (
	delimChar  rune = ''
	escapeChar rune = ''
)

// PathToString joins dim and path into the canonical dictionary label,
// escaping any literal delimiter/escape characters within a component.
func PathToString(dim string, path ...string) string {
	var b strings.Builder
	writeEscaped(&b, dim)
	for _, p := range path {
		b.WriteRune(delimChar)
		writeEscaped(&b, p)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, component string) {
	for _, r := range component {
		if r == delimChar || r == escapeChar {
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
}

// StringToPath inverts PathToString, splitting an encoded label back into
// its path components.
func StringToPath(s string) []string {
	var components []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == delimChar:
			components = append(components, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	components = append(components, cur.String())
	return components
}
