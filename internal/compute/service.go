// internal/compute/service.go
package compute

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"genoscope-core/fuzzy"
	"genoscope-core/synteny"
	"genoscope/internal/config"
	"genoscope/internal/scheduler"
	"genoscope/internal/seqcache"
	"genoscope/pkg/api"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Service is the request/response surface the UI layer talks to. It owns
// the sequence cache, the execution-context pool, and the named fuzzy
// indexes; it neither fetches from storage nor renders anything.
//
// Input errors come back as {ok:false, error} envelopes so callers can
// degrade gracefully; execution faults come back as Go errors and never
// prevent subsequent requests from running.
type Service struct {
	cfg  config.Config
	log  *zap.Logger
	pool *scheduler.Pool

	cache *seqcache.Store

	mu      sync.RWMutex
	indexes map[string]*fuzzy.Index
}

// New wires the compute layer. reg may be nil to skip metrics.
func New(cfg config.Config, log *zap.Logger, reg prometheus.Registerer) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg: cfg,
		log: log,
		pool: scheduler.NewPool(scheduler.Config{
			MaxPerCategory: cfg.Pool.MaxPerCategory,
			IdleTimeout:    cfg.Pool.IdleTimeout.Std(),
			SweepPeriod:    cfg.Pool.SweepPeriod.Std(),
		}, log.Named("pool"), reg),
		cache:   seqcache.New(cfg.Cache.Shared, log.Named("cache")),
		indexes: make(map[string]*fuzzy.Index),
	}
}

// Close tears down the pool. The cache needs no teardown.
func (s *Service) Close() { s.pool.Close() }

/* --------------------------- sequence cache ------------------------------ */

// RegisterSequence stores raw sequence bytes under genomeID.
func (s *Service) RegisterSequence(genomeID string, seq []byte) api.BufferRefV1 {
	b := s.cache.Register(genomeID, seq)
	return api.BufferRefV1{GenomeID: b.Key, Length: b.Length, Shared: b.Shared}
}

// ReleaseSequence drops the buffer for genomeID.
func (s *Service) ReleaseSequence(genomeID string) { s.cache.Release(genomeID) }

// resolveSequence ensures the request's sequence is in the cache and
// returns the dispatch payload.
func (s *Service) resolveSequence(genomeID, inline string) ([]byte, error) {
	if inline != "" {
		id := genomeID
		if id == "" {
			id = "adhoc"
		}
		return s.cache.Payload(s.cache.Register(id, []byte(inline))), nil
	}
	if b := s.cache.Get(genomeID); b != nil {
		return s.cache.Payload(b), nil
	}
	return nil, fmt.Errorf("%w: no sequence registered for genome %q", scheduler.ErrInput, genomeID)
}

/* ----------------------------- analyses ---------------------------------- */

// RunAnalysis dispatches a statistical analysis to an analysis context.
func (s *Service) RunAnalysis(ctx context.Context, req api.AnalysisRequestV1) (api.AnalysisResponseV1, error) {
	fail := func(err error) (api.AnalysisResponseV1, error) {
		if isInput(err) {
			return api.AnalysisResponseV1{Kind: req.Kind, Error: err.Error()}, nil
		}
		return api.AnalysisResponseV1{Kind: req.Kind}, err
	}

	if req.Kind != "anomaly" {
		return fail(fmt.Errorf("%w: unknown analysis kind %q", scheduler.ErrInput, req.Kind))
	}
	seq, err := s.resolveSequence(req.GenomeID, req.Sequence)
	if err != nil {
		return fail(err)
	}
	window, step := req.Window, req.Step
	if window <= 0 {
		window = s.cfg.Scan.Window
	}
	if step <= 0 {
		step = s.cfg.Scan.Step
	}

	out, err := s.pool.RunAnomaly(ctx, &scheduler.AnomalyTask{Seq: seq, Window: window, Step: step})
	if err != nil {
		return fail(err)
	}
	return api.AnalysisResponseV1{OK: true, Kind: req.Kind, Anomaly: out}, nil
}

// RunSynteny aligns two annotated genomes on an analysis context.
func (s *Service) RunSynteny(ctx context.Context, job api.SyntenyJobV1) (api.SyntenyResponseV1, error) {
	out, err := s.pool.RunSynteny(ctx, &scheduler.SyntenyTask{
		Query:     job.GenesQuery,
		Reference: job.GenesReference,
	})
	if err != nil {
		if isInput(err) {
			return api.SyntenyResponseV1{Error: err.Error()}, nil
		}
		return api.SyntenyResponseV1{}, err
	}
	return api.SyntenyResponseV1{
		OK:       true,
		Analysis: out,
		BlocksBp: blocksBp(out.Blocks),
		Heatmap:  out.Matrix,
		Stats:    syntenyStats(out),
	}, nil
}

func blocksBp(blocks []synteny.Block) []api.SyntenyBlockBpV1 {
	out := make([]api.SyntenyBlockBpV1, len(blocks))
	for i, b := range blocks {
		out[i] = api.SyntenyBlockBpV1{
			QueryStartBp: b.QueryStartBp,
			QueryEndBp:   b.QueryEndBp,
			RefStartBp:   b.RefStartBp,
			RefEndBp:     b.RefEndBp,
			Orientation:  b.Orientation,
			Score:        b.Score,
		}
	}
	return out
}

// RunSearch dispatches one search request.
func (s *Service) RunSearch(ctx context.Context, req api.SearchRequestV1) (api.SearchResponseV1, error) {
	fail := func(err error) (api.SearchResponseV1, error) {
		if isInput(err) {
			return api.SearchResponseV1{Mode: req.Mode, Query: req.Query, Error: err.Error()}, nil
		}
		return api.SearchResponseV1{Mode: req.Mode, Query: req.Query}, err
	}

	task := &scheduler.SearchTask{
		Mode:     req.Mode,
		Query:    req.Query,
		Features: req.Features,
		Options: scheduler.SearchOptions{
			MaxResults:    pick(req.Options.MaxResults, s.cfg.Search.HitCap),
			MaxMismatches: req.Options.MaxMismatches,
			Strand:        strand(req.Options.Strand),
		},
	}
	if req.Mode == "sequence" || req.Mode == "motif" {
		seq, err := s.resolveSequence(req.GenomeID, req.Sequence)
		if err != nil {
			return fail(err)
		}
		task.Seq = seq
	}

	out, err := s.pool.RunSearch(ctx, task)
	if err != nil {
		return fail(err)
	}
	resp := api.SearchResponseV1{OK: true, Mode: out.Mode, Query: out.Query, Hits: make([]api.SearchHitV1, len(out.Hits))}
	for i, h := range out.Hits {
		resp.Hits[i] = api.SearchHitV1{
			Position:  h.Position,
			End:       h.End,
			Strand:    h.Strand,
			Label:     h.Label,
			Context:   h.Context,
			Feature:   h.Feature,
			MatchType: h.MatchType,
			Score:     h.Score,
		}
	}
	return resp, nil
}

/* ------------------------------ fuzzy ------------------------------------ */

// BuildFuzzyIndex builds or wholesale-replaces a named index.
func (s *Service) BuildFuzzyIndex(req api.FuzzyIndexRequestV1) {
	entries := make([]fuzzy.Entry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = fuzzy.Entry{ID: e.ID, Text: e.Text, Metadata: e.Metadata}
	}
	ix := fuzzy.Build(entries)
	s.mu.Lock()
	s.indexes[req.Index] = ix
	s.mu.Unlock()
	s.log.Debug("fuzzy index built",
		zap.String("index", req.Index),
		zap.Int("entries", ix.Len()))
}

// FuzzySearch queries a named index on an analysis context.
func (s *Service) FuzzySearch(ctx context.Context, req api.FuzzySearchRequestV1) (api.FuzzySearchResponseV1, error) {
	s.mu.RLock()
	ix := s.indexes[req.Index]
	s.mu.RUnlock()

	out, err := s.pool.RunFuzzy(ctx, &scheduler.FuzzyTask{Index: ix, Query: req.Query, Limit: req.Limit})
	if err != nil {
		if isInput(err) {
			return api.FuzzySearchResponseV1{Index: req.Index, Query: req.Query, Error: err.Error()}, nil
		}
		return api.FuzzySearchResponseV1{Index: req.Index, Query: req.Query}, err
	}
	resp := api.FuzzySearchResponseV1{OK: true, Index: req.Index, Query: req.Query, Results: make([]api.FuzzyResultV1, len(out))}
	for i, r := range out {
		resp.Results[i] = api.FuzzyResultV1{ID: r.ID, Text: r.Text, Score: r.Score}
	}
	return resp, nil
}

/* ------------------------------ helpers ---------------------------------- */

func isInput(err error) bool { return errors.Is(err, scheduler.ErrInput) }

func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func strand(s string) scheduler.Strand {
	return scheduler.Strand(s)
}

func syntenyStats(r *synteny.Result) *api.SyntenyStatsV1 {
	return &api.SyntenyStatsV1{
		Blocks:            len(r.Blocks),
		GlobalScore:       r.GlobalScore,
		DTWDistance:       r.DTWDistance,
		QueryCoverageBp:   r.QueryCoverageBp,
		RefCoverageBp:     r.RefCoverageBp,
		QueryCoverageFrac: r.QueryCoverageFrac,
		RefCoverageFrac:   r.RefCoverageFrac,
	}
}
