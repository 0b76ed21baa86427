// internal/scheduler/context.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category partitions execution contexts by workload. Contexts are never
// shared across categories.
type Category string

const (
	CategoryAnalysis   Category = "analysis"
	CategorySimulation Category = "simulation"
)

// TaskKind selects the algorithm a request runs.
type TaskKind string

const (
	TaskAnomaly TaskKind = "anomaly"
	TaskSynteny TaskKind = "synteny"
	TaskSearch  TaskKind = "search"
	TaskFuzzy   TaskKind = "fuzzy"
)

// taskRequest is the only message that enters an execution context. Exactly
// one payload field matching Kind is set.
type taskRequest struct {
	Kind    TaskKind
	Anomaly *AnomalyTask
	Synteny *SyntenyTask
	Search  *SearchTask
	Fuzzy   *FuzzyTask

	ctx   context.Context
	reply chan taskResponse
}

// taskResponse is the only message that leaves an execution context.
type taskResponse struct {
	Kind   TaskKind
	Result any
	Err    error
}

// ExecContext is an isolated unit of computation: a goroutine owning a task
// channel. Callers never touch its state directly; the pool does all
// bookkeeping under its own lock.
type ExecContext struct {
	ID       string
	Category Category

	busy     bool
	healthy  bool
	overflow bool
	lastUsed time.Time

	tasks chan taskRequest
	done  chan struct{}
}

func newExecContext(category Category, overflow bool) *ExecContext {
	c := &ExecContext{
		ID:       uuid.NewString(),
		Category: category,
		healthy:  true,
		overflow: overflow,
		lastUsed: time.Now(),
		tasks:    make(chan taskRequest),
		done:     make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *ExecContext) loop() {
	defer close(c.done)
	for req := range c.tasks {
		req.reply <- c.execute(req)
	}
}

// execute runs one task, converting panics into execution faults so a
// crashed context never takes the process down.
func (c *ExecContext) execute(req taskRequest) (resp taskResponse) {
	resp.Kind = req.Kind
	defer func() {
		if r := recover(); r != nil {
			resp.Result = nil
			resp.Err = fmt.Errorf("execution fault in context %s: %v", c.ID, r)
		}
	}()

	switch req.Kind {
	case TaskAnomaly:
		resp.Result, resp.Err = req.Anomaly.run(req.ctx)
	case TaskSynteny:
		resp.Result, resp.Err = req.Synteny.run(req.ctx)
	case TaskSearch:
		resp.Result, resp.Err = req.Search.run(req.ctx)
	case TaskFuzzy:
		resp.Result, resp.Err = req.Fuzzy.run(req.ctx)
	default:
		resp.Err = fmt.Errorf("unknown task kind %q", req.Kind)
	}
	return resp
}

// terminate stops the context goroutine. Must not be called twice; the
// pool guarantees that by removing the context on first termination.
func (c *ExecContext) terminate() {
	close(c.tasks)
	<-c.done
}
