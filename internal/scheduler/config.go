package scheduler

import (
	"github.com/rs/zerolog"
	"github.com/utkarsh5026/wavesum/internal/algorithms"
)

// Config holds everything the worker pool and its queue need.
type Config struct {
	// Number of persistent worker goroutines.
	WorkerCount int

	// Ring capacity of the task queue (0 selects the default).
	QueueCapacity int

	// Pacing for the dispatcher when the ring is full (may be nil).
	Backoff algorithms.BackoffStrategy

	// Pin each worker to a logical CPU.
	PinWorkers bool

	// Destination for worker lifecycle events.
	Logger zerolog.Logger

	// Hook called on the worker goroutine before a task's addition.
	BeforeTaskStart func(Task)

	// Hook called on the worker goroutine after a task's addition, before
	// the task's barrier is signaled.
	OnTaskEnd func(Task)
}
