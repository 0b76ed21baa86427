// internal/scheduler/tasks.go
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"genoscope-core/anomaly"
	"genoscope-core/fuzzy"
	"genoscope-core/genes"
	"genoscope-core/synteny"
)

// ErrInput marks malformed or missing request data. Callers surface these
// as structured {ok:false, error} responses so the UI can degrade
// gracefully; anything else is an execution fault.
var ErrInput = errors.New("invalid input")

// AnomalyTask runs the sliding-window statistical scan.
type AnomalyTask struct {
	Seq    []byte
	Window int
	Step   int
}

func (t *AnomalyTask) run(ctx context.Context) (any, error) {
	if len(t.Seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInput)
	}
	res, err := anomaly.ScanCtx(ctx, t.Seq, anomaly.Options{Window: t.Window, Step: t.Step})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SyntenyTask aligns two ordered gene lists.
type SyntenyTask struct {
	Query     []genes.Gene
	Reference []genes.Gene
}

func (t *SyntenyTask) run(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := synteny.Align(t.Query, t.Reference)
	if err != nil {
		if errors.Is(err, synteny.ErrNoGenes) {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
		return nil, err
	}
	return &res, nil
}

// FuzzyTask queries a prebuilt label index.
type FuzzyTask struct {
	Index *fuzzy.Index
	Query string
	Limit int
}

func (t *FuzzyTask) run(ctx context.Context) (any, error) {
	if t.Index == nil {
		return nil, fmt.Errorf("%w: unknown fuzzy index", ErrInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.Index.Search(t.Query, t.Limit), nil
}
