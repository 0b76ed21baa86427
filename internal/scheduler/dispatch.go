// internal/scheduler/dispatch.go
package scheduler

import (
	"context"
	"fmt"

	"genoscope-core/anomaly"
	"genoscope-core/fuzzy"
	"genoscope-core/seqmatch"
	"genoscope-core/synteny"
)

// Strand re-exports the scan strand selector for callers of the pool.
type Strand = seqmatch.Strand

// RunAnomaly runs a windowed statistical scan on an analysis context.
func (p *Pool) RunAnomaly(ctx context.Context, t *AnomalyTask) (*anomaly.Result, error) {
	out, err := p.Do(ctx, CategoryAnalysis, taskRequest{Kind: TaskAnomaly, Anomaly: t})
	if err != nil {
		return nil, err
	}
	res, ok := out.(*anomaly.Result)
	if !ok {
		return nil, fmt.Errorf("scheduler: unexpected anomaly result type %T", out)
	}
	return res, nil
}

// RunSynteny runs a gene-order alignment on an analysis context.
func (p *Pool) RunSynteny(ctx context.Context, t *SyntenyTask) (*synteny.Result, error) {
	out, err := p.Do(ctx, CategoryAnalysis, taskRequest{Kind: TaskSynteny, Synteny: t})
	if err != nil {
		return nil, err
	}
	res, ok := out.(*synteny.Result)
	if !ok {
		return nil, fmt.Errorf("scheduler: unexpected synteny result type %T", out)
	}
	return res, nil
}

// RunSearch runs one search request on an analysis context.
func (p *Pool) RunSearch(ctx context.Context, t *SearchTask) (*SearchResult, error) {
	out, err := p.Do(ctx, CategoryAnalysis, taskRequest{Kind: TaskSearch, Search: t})
	if err != nil {
		return nil, err
	}
	res, ok := out.(*SearchResult)
	if !ok {
		return nil, fmt.Errorf("scheduler: unexpected search result type %T", out)
	}
	return res, nil
}

// RunFuzzy queries a prebuilt label index on an analysis context.
func (p *Pool) RunFuzzy(ctx context.Context, t *FuzzyTask) ([]fuzzy.Result, error) {
	out, err := p.Do(ctx, CategoryAnalysis, taskRequest{Kind: TaskFuzzy, Fuzzy: t})
	if err != nil {
		return nil, err
	}
	res, ok := out.([]fuzzy.Result)
	if !ok {
		return nil, fmt.Errorf("scheduler: unexpected fuzzy result type %T", out)
	}
	return res, nil
}
