// core/fuzzy/search.go
package fuzzy

import (
	"sort"
	"strings"
)

// Result is one ranked fuzzy match.
type Result struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// candidateCap bounds the trigram shortlist before exact scoring. Generous
// on purpose: exact scoring is cheap and recall matters more than speed at
// corpus sizes this layer sees.
const candidateCap = 2000

// Search returns up to limit entries matching query, best first.
// Ordering: score desc, text length asc, text lexicographic.
func (ix *Index) Search(query string, limit int) []Result {
	q := normalize(query)
	if q == "" || len(ix.entries) == 0 {
		return nil
	}

	candidates := ix.shortlist(q)

	results := make([]Result, 0, len(candidates))
	for _, i := range candidates {
		e := ix.entries[i]
		score, ok := scoreSubsequence(q, e.normalized)
		if !ok {
			continue
		}
		results = append(results, Result{ID: e.ID, Text: e.Text, Score: score})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		if len(results[a].Text) != len(results[b].Text) {
			return len(results[a].Text) < len(results[b].Text)
		}
		return results[a].Text < results[b].Text
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// shortlist picks candidate entry indices. A query under 3 characters, or
// an index with no trigrams at all, forces a scan of the full corpus;
// otherwise candidates are the union of the query trigrams' postings,
// ranked by shared-trigram count and truncated to candidateCap.
func (ix *Index) shortlist(q string) []int {
	if len(q) < 3 || len(ix.trigrams) == 0 {
		all := make([]int, len(ix.entries))
		for i := range all {
			all[i] = i
		}
		return all
	}

	shared := make(map[int]int)
	for t := range trigramSet(q) {
		for _, i := range ix.trigrams[t] {
			shared[i]++
		}
	}
	if len(shared) == 0 {
		// No posting overlap: fall back to the full corpus so short or
		// trigram-free entries stay reachable.
		all := make([]int, len(ix.entries))
		for i := range all {
			all[i] = i
		}
		return all
	}

	out := make([]int, 0, len(shared))
	for i := range shared {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if shared[out[a]] != shared[out[b]] {
			return shared[out[a]] > shared[out[b]]
		}
		return out[a] < out[b]
	})
	if len(out) > candidateCap {
		out = out[:candidateCap]
	}
	return out
}

// separators that grant a word-boundary bonus.
func isSeparator(c byte) bool {
	switch c {
	case ' ', ':', '/', '-', '_', '.':
		return true
	}
	return false
}

// scoreSubsequence scores query against text. The query's characters must
// appear in order within text or there is no match at all.
//
//	+1 per matched character
//	+2 extra when a match immediately follows the previous one
//	+3 extra when a match starts the text or follows a separator
//	+10 when the text starts with the query
//	+5 when the text merely contains the query contiguously
//	plus a small shorter-text tie-breaker
func scoreSubsequence(query, text string) (float64, bool) {
	score := 0.0
	prev := -2
	ti := 0
	for qi := 0; qi < len(query); qi++ {
		j := strings.IndexByte(text[ti:], query[qi])
		if j < 0 {
			return 0, false
		}
		pos := ti + j
		score++
		if pos == prev+1 {
			score += 2
		}
		if pos == 0 || isSeparator(text[pos-1]) {
			score += 3
		}
		prev = pos
		ti = pos + 1
	}

	if strings.HasPrefix(text, query) {
		score += 10
	} else if strings.Contains(text, query) {
		score += 5
	}
	score += 1.0 / float64(1+len(text))
	return score, true
}
