// pkg/api/compute_v1.go
package api

import (
	"genoscope-core/anomaly"
	"genoscope-core/genes"
	"genoscope-core/synteny"
)

// Stable request/response contracts between the UI layer and the compute
// layer. Keep fields, names, and types stable. Add new fields only with
// ",omitempty".

// BufferRefV1 describes a registered sequence buffer.
type BufferRefV1 struct {
	GenomeID string `json:"genome_id"`
	Length   int    `json:"length"`
	Shared   bool   `json:"shared"`
}

// AnalysisRequestV1 submits a statistical analysis. Sequence may be inline
// or resolved from the cache via GenomeID; inline sequences are registered
// under GenomeID as a side effect.
type AnalysisRequestV1 struct {
	Kind     string `json:"kind"` // "anomaly"
	GenomeID string `json:"genome_id,omitempty"`
	Sequence string `json:"sequence,omitempty"`
	Window   int    `json:"window,omitempty"`
	Step     int    `json:"step,omitempty"`
}

// AnalysisResponseV1 is keyed by kind; anomaly fills Anomaly.
type AnalysisResponseV1 struct {
	OK      bool            `json:"ok"`
	Kind    string          `json:"kind"`
	Anomaly *anomaly.Result `json:"anomaly,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SyntenyJobV1 aligns two annotated genomes.
type SyntenyJobV1 struct {
	Query          string       `json:"query"`
	Reference      string       `json:"reference"`
	GenesQuery     []genes.Gene `json:"genes_query"`
	GenesReference []genes.Gene `json:"genes_reference"`
}

// SyntenyStatsV1 summarizes one alignment run.
type SyntenyStatsV1 struct {
	Blocks            int     `json:"blocks"`
	GlobalScore       float64 `json:"global_score"`
	DTWDistance       float64 `json:"dtw_distance"`
	QueryCoverageBp   int     `json:"query_coverage_bp"`
	RefCoverageBp     int     `json:"ref_coverage_bp"`
	QueryCoverageFrac float64 `json:"query_coverage_frac"`
	RefCoverageFrac   float64 `json:"ref_coverage_frac"`
}

// SyntenyBlockBpV1 is one block reduced to forward-strand bp spans, ready
// for a ribbon/track renderer.
type SyntenyBlockBpV1 struct {
	QueryStartBp int     `json:"query_start_bp"`
	QueryEndBp   int     `json:"query_end_bp"`
	RefStartBp   int     `json:"ref_start_bp"`
	RefEndBp     int     `json:"ref_end_bp"`
	Orientation  string  `json:"orientation"`
	Score        float64 `json:"score"`
}

// SyntenyResponseV1 carries the full analysis plus display-ready views.
type SyntenyResponseV1 struct {
	OK       bool               `json:"ok"`
	Analysis *synteny.Result    `json:"analysis,omitempty"`
	BlocksBp []SyntenyBlockBpV1 `json:"blocks_bp,omitempty"`
	Heatmap  [][]float64        `json:"heatmap,omitempty"` // similarity matrix, rows = query genes
	Stats    *SyntenyStatsV1    `json:"stats,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// SearchOptionsV1 tunes a search request.
type SearchOptionsV1 struct {
	MaxResults    int    `json:"max_results,omitempty"` // default 500
	MaxMismatches int    `json:"max_mismatches,omitempty"`
	Strand        string `json:"strand,omitempty"` // "+", "-", "both"
}

// SearchRequestV1 dispatches one of the search modes:
// sequence | motif | gene | feature | position.
type SearchRequestV1 struct {
	Mode     string          `json:"mode"`
	Query    string          `json:"query"`
	GenomeID string          `json:"genome_id,omitempty"`
	Sequence string          `json:"sequence,omitempty"`
	Features []genes.Gene    `json:"features,omitempty"`
	Options  SearchOptionsV1 `json:"options,omitempty"`
}

// SearchHitV1 is one match in forward-strand coordinates.
type SearchHitV1 struct {
	Position  int         `json:"position"`
	End       int         `json:"end"`
	Strand    string      `json:"strand,omitempty"`
	Label     string      `json:"label"`
	Context   string      `json:"context,omitempty"`
	Feature   *genes.Gene `json:"feature,omitempty"`
	MatchType string      `json:"match_type,omitempty"`
	Score     float64     `json:"score,omitempty"`
}

// SearchResponseV1 is one search run.
type SearchResponseV1 struct {
	OK    bool          `json:"ok"`
	Mode  string        `json:"mode"`
	Query string        `json:"query"`
	Hits  []SearchHitV1 `json:"hits"`
	Error string        `json:"error,omitempty"`
}

// FuzzyEntryV1 is one searchable label.
type FuzzyEntryV1 struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FuzzyIndexRequestV1 builds or wholesale-replaces a named index.
type FuzzyIndexRequestV1 struct {
	Index   string         `json:"index"`
	Entries []FuzzyEntryV1 `json:"entries"`
}

// FuzzySearchRequestV1 queries a named index.
type FuzzySearchRequestV1 struct {
	Index string `json:"index"`
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// FuzzyResultV1 is one ranked match.
type FuzzyResultV1 struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// FuzzySearchResponseV1 wraps the ranked results.
type FuzzySearchResponseV1 struct {
	OK      bool            `json:"ok"`
	Index   string          `json:"index"`
	Query   string          `json:"query"`
	Results []FuzzyResultV1 `json:"results"`
	Error   string          `json:"error,omitempty"`
}
