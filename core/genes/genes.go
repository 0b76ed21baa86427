// core/genes/genes.go
package genes

import "strings"

// Gene is one annotated feature of a genome. Start/End are 0-based
// half-open base-pair coordinates on the forward strand.
type Gene struct {
	ID      string
	Name    string
	Product string
	Locus   string
	Type    string // "gene", "CDS", "tRNA", ...
	Start   int
	End     int
	Strand  string // "+" or "-"
}

// Label returns the most descriptive non-empty field.
func (g Gene) Label() string {
	switch {
	case g.Name != "":
		return g.Name
	case g.Product != "":
		return g.Product
	case g.Locus != "":
		return g.Locus
	}
	return g.ID
}

// Overlaps reports whether the gene intersects [start, end).
func (g Gene) Overlaps(start, end int) bool {
	return g.Start < end && start < g.End
}

// NormalizeLabel lowercases and collapses separators so that descriptive
// labels compare by content rather than formatting.
func NormalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '_', '-', '/', ':', '.', ',':
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			prevSpace = true
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Tokens splits a normalized label into word tokens.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
