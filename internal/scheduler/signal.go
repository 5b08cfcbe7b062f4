package scheduler

import (
	"sync"
	"sync/atomic"
)

// CancellationSignal is a one-shot shutdown indicator shared by all workers.
// Set flips it exactly once and closes the Done channel, so both polling
// (IsSet) and blocking (<-Done()) observers see it.
type CancellationSignal struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

// NewCancellationSignal creates an unset signal.
func NewCancellationSignal() *CancellationSignal {
	return &CancellationSignal{
		done: make(chan struct{}),
	}
}

// Set raises the signal. Safe to call multiple times and from multiple
// goroutines; only the first call has an effect.
func (s *CancellationSignal) Set() {
	s.once.Do(func() {
		s.set.Store(true)
		close(s.done)
	})
}

// IsSet reports whether Set has been called. It never blocks.
func (s *CancellationSignal) IsSet() bool {
	return s.set.Load()
}

// Done returns a channel that is closed once the signal is set.
func (s *CancellationSignal) Done() <-chan struct{} {
	return s.done
}
