// internal/scheduler/search.go
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"genoscope-core/dna"
	"genoscope-core/genes"
	"genoscope-core/seqmatch"
)

// DefaultHitCap bounds search results unless the request overrides it.
const DefaultHitCap = 500

// hit context slice radius in bp.
const contextBp = 20

// SearchOptions tunes one search request.
type SearchOptions struct {
	MaxResults    int
	MaxMismatches int
	Strand        seqmatch.Strand
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultHitCap
	}
	if o.Strand == "" {
		o.Strand = seqmatch.StrandBoth
	}
	return o
}

// SearchHit is one match in forward-strand coordinates.
type SearchHit struct {
	Position  int         `json:"position"`
	End       int         `json:"end"`
	Strand    string      `json:"strand,omitempty"`
	Label     string      `json:"label"`
	Context   string      `json:"context,omitempty"`
	Feature   *genes.Gene `json:"feature,omitempty"`
	MatchType string      `json:"match_type,omitempty"`
	Score     float64     `json:"score,omitempty"`
}

// SearchResult is one search run.
type SearchResult struct {
	Mode  string      `json:"mode"`
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

// SearchTask dispatches one of the search modes: "sequence" and "motif"
// scan the DNA, "gene"/"feature"/"position" reduce to substring or
// interval-overlap tests against the supplied annotations.
type SearchTask struct {
	Mode     string
	Query    string
	Seq      []byte
	Features []genes.Gene
	Options  SearchOptions
}

func (t *SearchTask) run(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := t.Options.withDefaults()
	res := &SearchResult{Mode: t.Mode, Query: t.Query, Hits: []SearchHit{}}

	switch t.Mode {
	case "sequence", "motif":
		if len(t.Seq) == 0 {
			return nil, fmt.Errorf("%w: empty sequence", ErrInput)
		}
		pattern := []byte(strings.ToUpper(strings.TrimSpace(t.Query)))
		if len(pattern) == 0 {
			return nil, fmt.Errorf("%w: empty query", ErrInput)
		}
		// Validate before Normalize: Normalize masks unknown bytes to N,
		// which would hide invalid motif characters.
		if t.Mode == "motif" && !dna.IsIUPAC(pattern) {
			return nil, fmt.Errorf("%w: %q is not a valid IUPAC motif", ErrInput, t.Query)
		}
		pattern = dna.Normalize(pattern)
		for _, h := range seqmatch.Scan(t.Seq, pattern, opts.MaxMismatches, opts.MaxResults, opts.Strand) {
			res.Hits = append(res.Hits, SearchHit{
				Position:  h.Pos,
				End:       h.Pos + h.Length,
				Strand:    string(h.Strand),
				Label:     t.Query,
				Context:   contextSlice(t.Seq, h.Pos, h.Pos+h.Length),
				MatchType: matchType(h.Mismatches),
				Score:     1 - float64(h.Mismatches)/float64(h.Length),
			})
		}

	case "gene":
		q := genes.NormalizeLabel(t.Query)
		if q == "" {
			return nil, fmt.Errorf("%w: empty query", ErrInput)
		}
		for i := range t.Features {
			g := t.Features[i]
			if !labelContains(g, q) {
				continue
			}
			res.Hits = append(res.Hits, featureHit(g))
			if len(res.Hits) >= opts.MaxResults {
				break
			}
		}

	case "feature":
		q := strings.ToLower(strings.TrimSpace(t.Query))
		if q == "" {
			return nil, fmt.Errorf("%w: empty query", ErrInput)
		}
		for i := range t.Features {
			g := t.Features[i]
			if !strings.Contains(strings.ToLower(g.Type), q) {
				continue
			}
			res.Hits = append(res.Hits, featureHit(g))
			if len(res.Hits) >= opts.MaxResults {
				break
			}
		}

	case "position":
		start, end, err := parseRange(t.Query)
		if err != nil {
			return nil, err
		}
		for i := range t.Features {
			g := t.Features[i]
			if !g.Overlaps(start, end) {
				continue
			}
			res.Hits = append(res.Hits, featureHit(g))
			if len(res.Hits) >= opts.MaxResults {
				break
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown search mode %q", ErrInput, t.Mode)
	}
	return res, nil
}

func matchType(mismatches int) string {
	if mismatches == 0 {
		return "exact"
	}
	return "mismatch"
}

func contextSlice(seq []byte, start, end int) string {
	lo := start - contextBp
	if lo < 0 {
		lo = 0
	}
	hi := end + contextBp
	if hi > len(seq) {
		hi = len(seq)
	}
	return string(seq[lo:hi])
}

func labelContains(g genes.Gene, normalizedQuery string) bool {
	for _, s := range []string{g.Name, g.Product, g.Locus, g.ID} {
		if s == "" {
			continue
		}
		if strings.Contains(genes.NormalizeLabel(s), normalizedQuery) {
			return true
		}
	}
	return false
}

func featureHit(g genes.Gene) SearchHit {
	gc := g
	return SearchHit{
		Position:  g.Start,
		End:       g.End,
		Strand:    g.Strand,
		Label:     g.Label(),
		Feature:   &gc,
		MatchType: "annotation",
		Score:     1,
	}
}

// parseRange accepts "start-end" and "start..end" 0-based bp ranges.
func parseRange(q string) (int, int, error) {
	q = strings.TrimSpace(q)
	var parts []string
	switch {
	case strings.Contains(q, ".."):
		parts = strings.SplitN(q, "..", 2)
	case strings.Contains(q, "-"):
		parts = strings.SplitN(q, "-", 2)
	default:
		return 0, 0, fmt.Errorf("%w: malformed position range %q", ErrInput, q)
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || start < 0 || end < start {
		return 0, 0, fmt.Errorf("%w: malformed position range %q", ErrInput, q)
	}
	return start, end, nil
}
