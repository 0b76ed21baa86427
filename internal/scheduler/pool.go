// internal/scheduler/pool.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config tunes the pool.
type Config struct {
	// MaxPerCategory is the soft cap. Allocation creates freely below half
	// of it; past that, overflow contexts are created anyway (warned, never
	// queued), trading burst throughput for unbounded worst-case size.
	MaxPerCategory int
	// IdleTimeout is how long an idle context survives before the janitor
	// reclaims it.
	IdleTimeout time.Duration
	// SweepPeriod is the janitor interval.
	SweepPeriod time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxPerCategory <= 0 {
		c.MaxPerCategory = 8
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 2 * time.Minute
	}
	if c.SweepPeriod <= 0 {
		c.SweepPeriod = 30 * time.Second
	}
	return c
}

// ErrPoolClosed is returned once Close has been called.
var ErrPoolClosed = errors.New("scheduler: pool closed")

// Pool owns every execution context. A single mutex serializes all
// bookkeeping (allocate/release/sweep) so concurrent callers never race on
// the same context or double-count pool size.
type Pool struct {
	cfg Config
	log *zap.Logger
	m   *metrics

	mu       sync.Mutex
	contexts map[Category][]*ExecContext
	closed   bool

	stopOnce    sync.Once
	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewPool creates the pool and starts the idle-reclamation janitor.
// reg may be nil to skip metrics registration.
func NewPool(cfg Config, log *zap.Logger, reg prometheus.Registerer) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		cfg:         cfg.withDefaults(),
		log:         log,
		m:           newMetrics(reg),
		contexts:    make(map[Category][]*ExecContext),
		janitorStop: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	go p.janitor()
	return p
}

// Allocate returns a healthy idle context of the category, creating one if
// needed. It never queues: past the soft cap an overflow context is created
// and a capacity warning logged.
func (p *Pool) Allocate(category Category) (*ExecContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	// First sweep: drop non-busy unhealthy contexts.
	list := p.contexts[category]
	kept := list[:0]
	for _, c := range list {
		if !c.busy && !c.healthy {
			p.terminateLocked(c)
			continue
		}
		kept = append(kept, c)
	}
	p.contexts[category] = kept

	for _, c := range kept {
		if !c.busy && c.healthy {
			c.busy = true
			p.m.busy.WithLabelValues(string(category)).Inc()
			return c, nil
		}
	}

	overflow := len(kept) >= p.cfg.MaxPerCategory/2
	c := newExecContext(category, overflow)
	c.busy = true
	p.contexts[category] = append(p.contexts[category], c)
	p.m.created.WithLabelValues(string(category)).Inc()
	p.m.live.WithLabelValues(string(category)).Inc()
	p.m.busy.WithLabelValues(string(category)).Inc()
	if overflow {
		p.m.overflow.WithLabelValues(string(category)).Inc()
		p.log.Warn("pool at capacity, creating overflow context",
			zap.String("category", string(category)),
			zap.Int("live", len(p.contexts[category])),
			zap.Int("soft_cap", p.cfg.MaxPerCategory))
	} else {
		p.log.Debug("created execution context",
			zap.String("category", string(category)),
			zap.String("id", c.ID))
	}
	return c, nil
}

// Release returns a context to the idle set. A non-nil taskErr marks it
// unhealthy and terminates it immediately so a crashed context can never
// silently corrupt future results.
func (p *Pool) Release(c *ExecContext, taskErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.lastUsed = time.Now()
	c.busy = false
	p.m.busy.WithLabelValues(string(c.Category)).Dec()
	if taskErr != nil {
		c.healthy = false
		p.removeLocked(c)
		p.terminateLocked(c)
		p.log.Warn("context evicted after error",
			zap.String("id", c.ID),
			zap.String("category", string(c.Category)),
			zap.Error(taskErr))
		return
	}
	if p.closed {
		// Close ran while this context was busy; finish its teardown now.
		p.removeLocked(c)
		p.terminateLocked(c)
	}
}

// Do allocates a context, runs one task on it, and releases it. The caller
// suspends until the context responds or ctx is cancelled.
func (p *Pool) Do(ctx context.Context, category Category, req taskRequest) (any, error) {
	c, err := p.Allocate(category)
	if err != nil {
		return nil, err
	}
	req.ctx = ctx
	req.reply = make(chan taskResponse, 1)

	select {
	case c.tasks <- req:
	case <-ctx.Done():
		p.Release(c, nil)
		return nil, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		p.Release(c, executionFault(resp.Err))
		return resp.Result, resp.Err
	case <-ctx.Done():
		// The task keeps running inside the context; release it once the
		// reply lands so the pool bookkeeping stays correct.
		go func() {
			resp := <-req.reply
			p.Release(c, executionFault(resp.Err))
		}()
		return nil, ctx.Err()
	}
}

// executionFault filters out input errors: only genuine faults poison a
// context. Rejecting a malformed request is not evidence of corruption.
func executionFault(err error) error {
	if err == nil || errors.Is(err, ErrInput) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Stats reports current pool occupancy for one category.
func (p *Pool) Stats(category Category) (live, busy int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.contexts[category] {
		live++
		if c.busy {
			busy++
		}
	}
	return live, busy
}

// Close terminates the janitor and every context. In-flight tasks finish
// first because terminate waits for the context loop to drain.
func (p *Pool) Close() {
	p.stopOnce.Do(func() { close(p.janitorStop) })
	<-p.janitorDone

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	// Busy contexts are left to their Release call, which tears them down
	// under the closed flag; closing their task channel here would race
	// with an in-flight send.
	for cat, list := range p.contexts {
		kept := list[:0]
		for _, c := range list {
			if c.busy {
				kept = append(kept, c)
				continue
			}
			p.terminateLocked(c)
		}
		p.contexts[cat] = kept
	}
}

// janitor reclaims contexts idle past the timeout on a fixed period,
// always preserving at least one live context per category so a burst of
// new requests never pays full cold-start cost.
func (p *Pool) janitor() {
	defer close(p.janitorDone)
	t := time.NewTicker(p.cfg.SweepPeriod)
	defer t.Stop()
	for {
		select {
		case <-p.janitorStop:
			return
		case now := <-t.C:
			p.sweepIdle(now)
		}
	}
}

func (p *Pool) sweepIdle(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	for cat, list := range p.contexts {
		kept := list[:0]
		live := len(list)
		for _, c := range list {
			if !c.busy && live > 1 && now.Sub(c.lastUsed) > p.cfg.IdleTimeout {
				p.terminateLocked(c)
				live--
				p.log.Debug("reclaimed idle context",
					zap.String("id", c.ID),
					zap.String("category", string(cat)))
				continue
			}
			kept = append(kept, c)
		}
		p.contexts[cat] = kept
	}
}

func (p *Pool) removeLocked(c *ExecContext) {
	list := p.contexts[c.Category]
	for i, x := range list {
		if x == c {
			p.contexts[c.Category] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (p *Pool) terminateLocked(c *ExecContext) {
	c.terminate()
	p.m.live.WithLabelValues(string(c.Category)).Dec()
	p.m.terminated.WithLabelValues(string(c.Category)).Inc()
}

// String implements fmt.Stringer for debug logging.
func (p *Pool) String() string {
	a, ab := p.Stats(CategoryAnalysis)
	s, sb := p.Stats(CategorySimulation)
	return fmt.Sprintf("pool{analysis %d/%d busy, simulation %d/%d busy}", ab, a, sb, s)
}
