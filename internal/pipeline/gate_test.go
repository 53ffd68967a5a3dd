package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_NeverExceedsCapacity(t *testing.T) {
	const capacity = 4
	const tasks = 20

	g := NewGate(capacity)
	var inFlight, peak int64
	var wg sync.WaitGroup

	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, g.Acquire(context.Background()))
			defer g.Release()

			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(capacity))
	assert.GreaterOrEqual(t, atomic.LoadInt64(&peak), int64(2)) // sanity: actually concurrent
}

func TestGate_ExtraPipelineWaitsForRelease(t *testing.T) {
	g := NewGate(1)
	require.NoError(t, g.Acquire(context.Background()))

	admitted := make(chan struct{})
	go func() {
		_ = g.Acquire(context.Background())
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("second pipeline admitted while slot held")
	case <-time.After(20 * time.Millisecond):
	}

	g.Release()
	select {
	case <-admitted:
	case <-time.After(time.Second):
		t.Fatal("second pipeline not admitted after release")
	}
	g.Release()
}

func TestGate_AcquireHonorsContext(t *testing.T) {
	g := NewGate(1)
	require.NoError(t, g.Acquire(context.Background()))
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := g.Acquire(ctx)
	assert.Error(t, err)
}

func TestGate_ClampsCapacity(t *testing.T) {
	assert.Equal(t, 1, NewGate(0).Capacity())
	assert.Equal(t, 1, NewGate(-3).Capacity())
	assert.Equal(t, 8, NewGate(8).Capacity())
}
