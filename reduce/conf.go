package reduce

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/utkarsh5026/wavesum/internal/algorithms"
	"github.com/utkarsh5026/wavesum/internal/scheduler"
)

// DefaultTolerance is the absolute tolerance used when comparing float
// results.
const DefaultTolerance = 1e-9

const (
	defaultBackoffInitial = time.Microsecond
	defaultBackoffMax     = time.Millisecond
	defaultJitter         = 0.1
	defaultWaveLogEvery   = time.Second
)

// Option is a functional option for configuring reductions.
type Option func(*config)

type config struct {
	workerCount     int
	queueCapacity   int
	backend         Backend
	tolerance       float64
	pinWorkers      bool
	logger          zerolog.Logger
	backoffType     algorithms.BackoffType
	backoffInitial  time.Duration
	backoffMax      time.Duration
	waveLogInterval time.Duration
	beforeTaskStart func(Task)
	onTaskEnd       func(Task)
}

func createConfig(opts ...Option) *config {
	cfg := &config{
		workerCount:     runtime.GOMAXPROCS(0),
		backend:         BackendDispatcher,
		tolerance:       DefaultTolerance,
		logger:          zerolog.Nop(),
		backoffType:     algorithms.BackoffExponential,
		backoffInitial:  defaultBackoffInitial,
		backoffMax:      defaultBackoffMax,
		waveLogInterval: defaultWaveLogEvery,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) schedulerConfig() *scheduler.Config {
	return &scheduler.Config{
		WorkerCount:     c.workerCount,
		QueueCapacity:   c.queueCapacity,
		Backoff:         algorithms.NewBackoffStrategy(c.backoffType, c.backoffInitial, c.backoffMax, defaultJitter),
		PinWorkers:      c.pinWorkers,
		Logger:          c.logger.With().Str("component", "worker").Logger(),
		BeforeTaskStart: c.beforeTaskStart,
		OnTaskEnd:       c.onTaskEnd,
	}
}

// WithWorkerCount sets the number of persistent workers (or goroutines per
// wave for BackendChunked).
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithQueueCapacity sets the capacity of the task ring. It is capped at the
// size of the first wave and at 1<<30, then rounded up to a power of two.
// A wave larger than the ring is streamed through it.
func WithQueueCapacity(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.queueCapacity = min(size, scheduler.MaxQueueCapacity)
		}
	}
}

// WithBackend selects the backend used by Sum and Verify.
func WithBackend(b Backend) Option {
	return func(cfg *config) {
		cfg.backend = b
	}
}

// WithTolerance sets the absolute tolerance for float comparisons.
// Integer results are always compared exactly.
func WithTolerance(eps float64) Option {
	return func(cfg *config) {
		if eps >= 0 {
			cfg.tolerance = eps
		}
	}
}

// WithCPUAffinity pins every worker to a logical CPU, round robin.
// On platforms without affinity support workers run unpinned.
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
	}
}

// WithLogger sets the logger for engine and worker lifecycle events.
// If not specified, nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithWaveLogInterval limits per-wave debug events to one per interval.
func WithWaveLogInterval(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.waveLogInterval = d
		}
	}
}

// WithBackoff configures how the dispatcher paces itself while the task ring
// is full.
//
// Example:
//
//	WithBackoff(BackoffJittered, time.Microsecond, time.Millisecond)
func WithBackoff(backoffType BackoffType, initialDelay, maxDelay time.Duration) Option {
	return func(cfg *config) {
		cfg.backoffType = backoffType
		if initialDelay > 0 {
			cfg.backoffInitial = initialDelay
		}
		if maxDelay > 0 {
			cfg.backoffMax = maxDelay
		}
	}
}

// WithBeforeTaskStart registers a hook that runs on the worker goroutine
// just before a task's addition.
func WithBeforeTaskStart(fn func(Task)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook that runs on the worker goroutine after a
// task's addition and before the wave barrier is signaled.
func WithOnTaskEnd(fn func(Task)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}
