package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate is the bounded admission control limiting simultaneous in-flight
// pipelines. Slots are granted in arrival order; semaphore.Weighted queues
// waiters FIFO. It carries no state beyond the slot count.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewGate creates a Gate with the given capacity. Capacity values below 1
// are clamped to 1.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Acquire blocks until a slot is free or the context is done.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees a slot. Callers must pair every successful Acquire with
// exactly one Release, normally via defer.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Capacity returns the configured slot count.
func (g *Gate) Capacity() int {
	return g.capacity
}
