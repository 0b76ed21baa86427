package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPool(t *testing.T) *Pool {
	t.Helper()
	p := NewPool(Config{MaxPerCategory: 4, IdleTimeout: time.Minute, SweepPeriod: time.Hour}, nil, nil)
	t.Cleanup(p.Close)
	return p
}

func TestAllocateReusesIdleContext(t *testing.T) {
	p := newTestPool(t)

	c1, err := p.Allocate(CategoryAnalysis)
	require.NoError(t, err)
	p.Release(c1, nil)

	c2, err := p.Allocate(CategoryAnalysis)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID, "idle healthy context should be reused")
	p.Release(c2, nil)
}

func TestCategoriesNeverShareContexts(t *testing.T) {
	p := newTestPool(t)

	c1, err := p.Allocate(CategoryAnalysis)
	require.NoError(t, err)
	p.Release(c1, nil)

	c2, err := p.Allocate(CategorySimulation)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, CategorySimulation, c2.Category)
	p.Release(c2, nil)
}

func TestErrorReleaseEvictsContext(t *testing.T) {
	p := newTestPool(t)

	c1, err := p.Allocate(CategoryAnalysis)
	require.NoError(t, err)
	p.Release(c1, fmt.Errorf("boom"))

	live, _ := p.Stats(CategoryAnalysis)
	assert.Equal(t, 0, live, "errored context must leave the pool")

	c2, err := p.Allocate(CategoryAnalysis)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID, "errored context id must never come back")
	p.Release(c2, nil)
}

func TestOverflowBeyondSoftCap(t *testing.T) {
	p := newTestPool(t) // cap 4 → free creation below 2

	var held []*ExecContext
	for i := 0; i < 6; i++ {
		c, err := p.Allocate(CategoryAnalysis)
		require.NoError(t, err, "allocation must never queue or fail on capacity")
		held = append(held, c)
	}
	live, busy := p.Stats(CategoryAnalysis)
	assert.Equal(t, 6, live)
	assert.Equal(t, 6, busy)
	assert.True(t, held[5].overflow, "past cap/2 allocations are overflow contexts")

	for _, c := range held {
		p.Release(c, nil)
	}
}

func TestPanicBecomesExecutionFault(t *testing.T) {
	p := newTestPool(t)

	_, err := p.RunSynteny(context.Background(), nil) // nil task panics inside the context
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution fault")

	live, _ := p.Stats(CategoryAnalysis)
	assert.Equal(t, 0, live, "faulted context must be terminated")

	// The layer keeps serving after a fault.
	res, err := p.RunSearch(context.Background(), &SearchTask{
		Mode:  "sequence",
		Query: "GAATTC",
		Seq:   []byte("AAGAATTCAA"),
	})
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
}

func TestInputErrorDoesNotPoisonContext(t *testing.T) {
	p := newTestPool(t)

	_, err := p.RunSearch(context.Background(), &SearchTask{Mode: "nope", Query: "x"})
	require.ErrorIs(t, err, ErrInput)

	live, _ := p.Stats(CategoryAnalysis)
	assert.Equal(t, 1, live, "an input error is not evidence of corruption")
}

func TestIdleSweepKeepsOneContext(t *testing.T) {
	p := newTestPool(t)

	var cs []*ExecContext
	for i := 0; i < 3; i++ {
		c, err := p.Allocate(CategoryAnalysis)
		require.NoError(t, err)
		cs = append(cs, c)
	}
	for _, c := range cs {
		p.Release(c, nil)
	}

	p.sweepIdle(time.Now().Add(time.Hour))
	live, _ := p.Stats(CategoryAnalysis)
	assert.Equal(t, 1, live, "sweep must preserve one warm context per category")
}

func TestCancelledDispatch(t *testing.T) {
	p := newTestPool(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.RunAnomaly(ctx, &AnomalyTask{Seq: make([]byte, 10000), Window: 500, Step: 1})
	require.Error(t, err)

	// Bookkeeping must settle: eventually nothing is busy.
	assert.Eventually(t, func() bool {
		_, busy := p.Stats(CategoryAnalysis)
		return busy == 0
	}, time.Second, 5*time.Millisecond)
}

func TestConcurrentDispatch(t *testing.T) {
	p := newTestPool(t)

	seq := []byte("AAGAATTCAAGAATTCAAGAATTCAA")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.RunSearch(context.Background(), &SearchTask{
				Mode:    "sequence",
				Query:   "GAATTC",
				Seq:     seq,
				Options: SearchOptions{Strand: "+"},
			})
			assert.NoError(t, err)
			assert.Len(t, res.Hits, 3)
		}()
	}
	wg.Wait()

	_, busy := p.Stats(CategoryAnalysis)
	assert.Equal(t, 0, busy)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewPool(Config{}, nil, nil)
	p.Close()
	p.Close()
	_, err := p.Allocate(CategoryAnalysis)
	assert.ErrorIs(t, err, ErrPoolClosed)
}
