package svd

import (
	"strconv"
	"strings"
)

// Dimension is the dim/dimIncrement/dimIndex/dimName group that expands a
// single SVD element declaration (register, cluster, or peripheral) into
// an array of sibling elements, per SvdDimension.h in the original tool.
type Dimension struct {
	Dim          int
	DimIncrement uint64
	DimIndex     []string // explicit index list, e.g. ["0","1","2"] or ["A","B"]
	DimName      string
}

// Indices returns the effective list of index tokens: DimIndex if given,
// otherwise "0".."Dim-1" as decimal strings.
func (d *Dimension) Indices() []string {
	if d == nil || d.Dim == 0 {
		return nil
	}
	if len(d.DimIndex) > 0 {
		return d.DimIndex
	}
	out := make([]string, d.Dim)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// ExpandedElement is one instance produced by expanding a dimensioned name
// template against a single index.
type ExpandedElement struct {
	Index         string
	Name          string
	AddressOffset uint64
}

// Expand substitutes "%s" in namePattern with each index token (or appends
// the index when namePattern has no "%s", matching SvdConv's fallback), and
// computes each instance's address offset as base + position*DimIncrement.
func Expand(namePattern string, base uint64, d *Dimension) []ExpandedElement {
	if d == nil || d.Dim == 0 {
		return []ExpandedElement{{Name: namePattern, AddressOffset: base}}
	}
	indices := d.Indices()
	out := make([]ExpandedElement, 0, len(indices))
	for pos, idx := range indices {
		name := substituteIndex(namePattern, idx)
		out = append(out, ExpandedElement{
			Index:         idx,
			Name:          name,
			AddressOffset: base + uint64(pos)*d.DimIncrement,
		})
	}
	return out
}

func substituteIndex(pattern, idx string) string {
	if strings.Contains(pattern, "%s") {
		return strings.Replace(pattern, "%s", idx, 1)
	}
	return pattern + idx
}

// ParseDimIndex parses an SVD <dimIndex> text value: a comma-separated
// literal list ("A,B,C"), a numeric range ("0-3" meaning the decimal
// strings "0".."3"), or a character range ("A-D" meaning "A".."D").
func ParseDimIndex(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.Contains(text, ",") {
		parts := strings.Split(text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if i := strings.IndexByte(text, '-'); i > 0 {
		fromS, toS := text[:i], text[i+1:]
		if from, to, ok := parseNumericRange(fromS, toS); ok {
			out := make([]string, 0, to-from+1)
			for n := from; n <= to; n++ {
				out = append(out, strconv.Itoa(n))
			}
			return out
		}
		if from, to, ok := parseCharRange(fromS, toS); ok {
			out := make([]string, 0, int(to-from)+1)
			for c := from; c <= to; c++ {
				out = append(out, string(c))
			}
			return out
		}
	}
	return []string{text}
}

func parseNumericRange(fromS, toS string) (from, to int, ok bool) {
	from, err1 := strconv.Atoi(fromS)
	to, err2 := strconv.Atoi(toS)
	if err1 != nil || err2 != nil || to < from {
		return 0, 0, false
	}
	return from, to, true
}

// parseCharRange handles the "A-D" single-letter dimIndex form.
func parseCharRange(fromS, toS string) (from, to byte, ok bool) {
	if len(fromS) != 1 || len(toS) != 1 {
		return 0, 0, false
	}
	from, to = fromS[0], toS[0]
	isLetter := func(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }
	if !isLetter(from) || !isLetter(to) || to < from {
		return 0, 0, false
	}
	return from, to, true
}
