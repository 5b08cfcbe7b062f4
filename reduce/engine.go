package reduce

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/utkarsh5026/wavesum/internal/scheduler"
	"golang.org/x/time/rate"
)

// Engine is the dispatcher of a wave reduction. It owns a fixed pool of
// workers for the lifetime of one reduction, publishes one task per pair of
// every wave and waits for the wave's barrier before starting the next one.
//
// An Engine runs one reduction at a time and can be reused after Shutdown.
// Start, RunWave and Shutdown are serialized and meant to be driven by a
// single goroutine. Stats may be called from any goroutine at any time and
// never waits for a wave to finish.
type Engine[T Number] struct {
	conf *config

	// dispatch serializes Start, RunWave and Shutdown.
	dispatch sync.Mutex

	// mu guards run and stats.
	mu    sync.Mutex
	run   *engineRun[T]
	stats Stats
}

type engineRun[T Number] struct {
	buf    []T
	length int
	wave   int
	start  time.Time

	queue  *scheduler.TaskQueue
	cancel *scheduler.CancellationSignal
	pool   *scheduler.WorkerPool[T]

	log     zerolog.Logger
	waveLog *rate.Sometimes
}

// NewEngine creates an idle engine. No goroutines are started until Start.
func NewEngine[T Number](opts ...Option) *Engine[T] {
	return &Engine[T]{conf: createConfig(opts...)}
}

// Start binds buf to the engine and launches the worker pool. The engine
// reduces buf in place; the caller must not touch it until Shutdown returns.
//
// Buffers of length 0 or 1 are already reduced, so no workers are launched.
func (e *Engine[T]) Start(buf []T) error {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.run != nil {
		return ErrAlreadyStarted
	}

	r := &engineRun[T]{
		buf:     buf,
		length:  len(buf),
		start:   time.Now(),
		log:     e.conf.logger.With().Str("component", "dispatcher").Logger(),
		waveLog: &rate.Sometimes{First: 1, Interval: e.conf.waveLogInterval},
	}

	workers := 0
	if len(buf) > 1 {
		sc := e.conf.schedulerConfig()
		sc.QueueCapacity = ringSize(sc.QueueCapacity, len(buf))
		r.queue = scheduler.NewTaskQueue(sc.QueueCapacity, sc.Backoff)
		r.cancel = scheduler.NewCancellationSignal()
		r.pool = scheduler.NewWorkerPool(sc, buf, r.queue, r.cancel)
		r.pool.Start()
		workers = max(sc.WorkerCount, 1)
	}

	e.run = r
	e.stats = Stats{
		Length:        len(buf),
		Workers:       workers,
		LiveWorkers:   workers,
		QueueCapacity: queueCap(r.queue),
	}

	r.log.Info().
		Int("length", len(buf)).
		Int("workers", workers).
		Int("queue_capacity", e.stats.QueueCapacity).
		Msg("reduction started")
	return nil
}

// RunWave dispatches one wave, blocks until every task of it has completed
// and returns the live length after the wave. Once the length is 1 or less
// RunWave returns it without dispatching anything.
func (e *Engine[T]) RunWave() (int, error) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	e.mu.Lock()
	r := e.run
	e.mu.Unlock()

	if r == nil {
		return 0, ErrNotStarted
	}
	if r.length <= 1 {
		return r.length, nil
	}

	pairs := r.length / 2
	r.wave++
	barrier := scheduler.NewWaveBarrier(r.wave, pairs)
	for left := range pairs {
		if err := r.queue.Push(scheduler.NewTask(left, r.length, barrier)); err != nil {
			return r.length, fmt.Errorf("dispatch wave %d: %w", r.wave, err)
		}
	}
	barrier.Wait()

	prev := r.length
	r.length = pairs + prev%2

	e.mu.Lock()
	e.stats.Waves = r.wave
	e.mu.Unlock()

	r.waveLog.Do(func() {
		r.log.Debug().
			Int("wave", r.wave).
			Int("pairs", pairs).
			Int("length_before", prev).
			Int("length_after", r.length).
			Msg("wave complete")
	})
	return r.length, nil
}

// Shutdown stops the workers, waits for all of them to exit and returns
// buf[0]. If it is called before the live length reaches 1 the reduction is
// abandoned and buf[0] holds a partial sum. An empty buffer yields zero.
//
// The returned error reports a worker failure, such as a panicking hook.
func (e *Engine[T]) Shutdown() (T, error) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	var result T
	r := e.run
	if r == nil {
		return result, ErrNotStarted
	}
	e.run = nil

	var err error
	if r.pool != nil {
		r.cancel.Set()
		r.queue.Close()
		if jerr := r.pool.Join(); jerr != nil {
			err = fmt.Errorf("reduction worker failed: %w", jerr)
		}
		e.stats.Tasks = r.pool.Executed()
		e.stats.LiveWorkers = r.pool.Live()
	}
	e.stats.Elapsed = time.Since(r.start)

	if len(r.buf) > 0 {
		result = r.buf[0]
	}

	ev := r.log.Info()
	if err != nil {
		ev = r.log.Error().Err(err)
	}
	ev.Int("waves", e.stats.Waves).
		Int64("tasks", e.stats.Tasks).
		Dur("elapsed", e.stats.Elapsed).
		Bool("complete", r.length <= 1).
		Msg("reduction finished")

	return result, err
}

// Reduce runs a complete reduction of buf: Start, RunWave until one element
// remains, Shutdown. buf is left holding intermediate sums with the total at
// buf[0].
func (e *Engine[T]) Reduce(buf []T) (T, error) {
	if err := e.Start(buf); err != nil {
		var zero T
		return zero, err
	}

	for {
		n, err := e.RunWave()
		if err != nil {
			_, _ = e.Shutdown()
			var zero T
			return zero, err
		}
		if n <= 1 {
			break
		}
	}
	return e.Shutdown()
}

// Stats returns the statistics of the running reduction, or of the last one
// if the engine is idle.
func (e *Engine[T]) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.stats
	if r := e.run; r != nil {
		s.Elapsed = time.Since(r.start)
		if r.pool != nil {
			s.Tasks = r.pool.Executed()
			s.LiveWorkers = r.pool.Live()
		}
	}
	return s
}

// ringSize bounds the task ring by the largest wave, the first one.
func ringSize(configured, length int) int {
	if configured <= 0 {
		configured = scheduler.DefaultQueueCapacity
	}
	return max(min(configured, length/2), 1)
}

func queueCap(q *scheduler.TaskQueue) int {
	if q == nil {
		return 0
	}
	return q.Cap()
}
