// core/fuzzy/index.go
package fuzzy

import "strings"

// Entry is one searchable item of a corpus.
type Entry struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type indexed struct {
	Entry
	normalized string
}

// Index is a trigram-shortlisted fuzzy matcher over one corpus. It is
// rebuilt wholesale whenever the corpus changes; there is no incremental
// update. An Index is read-only after Build and safe for concurrent use.
type Index struct {
	entries  []indexed
	trigrams map[string][]int // trigram → entry indices
}

// Build creates the index for a corpus. Entries whose normalized text is
// shorter than 3 characters contribute no trigrams but remain eligible
// whenever a full scan runs.
func Build(entries []Entry) *Index {
	ix := &Index{
		entries:  make([]indexed, 0, len(entries)),
		trigrams: make(map[string][]int),
	}
	for _, e := range entries {
		n := normalize(e.Text)
		i := len(ix.entries)
		ix.entries = append(ix.entries, indexed{Entry: e, normalized: n})
		for t := range trigramSet(n) {
			ix.trigrams[t] = append(ix.trigrams[t], i)
		}
	}
	return ix
}

// Len returns the corpus size.
func (ix *Index) Len() int { return len(ix.entries) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trigramSet(s string) map[string]struct{} {
	if len(s) < 3 {
		return nil
	}
	out := make(map[string]struct{}, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		out[s[i:i+3]] = struct{}{}
	}
	return out
}
