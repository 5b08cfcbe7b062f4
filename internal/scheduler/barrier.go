package scheduler

import (
	"fmt"
	"sync/atomic"
)

// WaveBarrier is a single-use countdown for one wave. It is created with the
// number of tasks in the wave, every finished task calls Signal, and Wait
// returns once the count reaches zero.
//
// Completion is published by closing a channel, so everything a worker wrote
// before its Signal is visible to whoever returns from Wait.
type WaveBarrier struct {
	wave      int
	remaining atomic.Int64
	done      chan struct{}
}

// NewWaveBarrier creates a barrier for the given wave expecting count signals.
// A barrier with count <= 0 is already released.
func NewWaveBarrier(wave, count int) *WaveBarrier {
	b := &WaveBarrier{
		wave: wave,
		done: make(chan struct{}),
	}
	b.remaining.Store(int64(count))
	if count <= 0 {
		close(b.done)
	}
	return b
}

// Signal records one completed task.
// It panics if called more times than the barrier's count.
func (b *WaveBarrier) Signal() {
	n := b.remaining.Add(-1)
	switch {
	case n == 0:
		close(b.done)
	case n < 0:
		panic(fmt.Sprintf("scheduler: wave %d barrier signaled %d times past its count", b.wave, -n))
	}
}

// Wait blocks until every task of the wave has signaled.
func (b *WaveBarrier) Wait() {
	<-b.done
}

// Done returns a channel closed when the wave completes.
func (b *WaveBarrier) Done() <-chan struct{} {
	return b.done
}

// Remaining returns the number of tasks that have not signaled yet.
func (b *WaveBarrier) Remaining() int {
	return int(max(b.remaining.Load(), 0))
}

// Wave returns the wave number this barrier belongs to.
func (b *WaveBarrier) Wave() int {
	return b.wave
}
