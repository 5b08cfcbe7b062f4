package scheduler

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/utkarsh5026/wavesum/internal/cpu"
	"github.com/utkarsh5026/wavesum/internal/types"
	"golang.org/x/sync/errgroup"
)

// WorkerPool is a fixed set of long-lived workers reducing one buffer.
//
// Workers only ever touch buf[t.Left] and buf[t.Right()] of the task they
// hold. Tasks of one wave have disjoint indices and the dispatcher does not
// publish the next wave before the current barrier is released, so the
// buffer itself needs no locking.
type WorkerPool[T types.Number] struct {
	conf   *Config
	buf    []T
	queue  *TaskQueue
	cancel *CancellationSignal

	g        errgroup.Group
	started  atomic.Bool
	live     atomic.Int32
	executed atomic.Int64
}

// NewWorkerPool creates a pool over buf. Workers are not started until Start.
func NewWorkerPool[T types.Number](conf *Config, buf []T, queue *TaskQueue, cancel *CancellationSignal) *WorkerPool[T] {
	return &WorkerPool[T]{
		conf:   conf,
		buf:    buf,
		queue:  queue,
		cancel: cancel,
	}
}

// Start launches conf.WorkerCount workers. Calling Start twice is a no-op.
func (p *WorkerPool[T]) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	n := max(p.conf.WorkerCount, 1)
	p.live.Add(int32(n)) // #nosec G115 -- worker counts are small
	for i := range n {
		p.g.Go(func() error {
			defer p.live.Add(-1)
			return p.worker(i)
		})
	}
}

// Join waits for every worker to exit and returns the first worker error.
// Workers only exit after the queue is closed.
func (p *WorkerPool[T]) Join() error {
	return p.g.Wait()
}

// Live returns the number of workers that have not exited yet.
func (p *WorkerPool[T]) Live() int {
	return int(p.live.Load())
}

// Executed returns the number of tasks completed so far.
func (p *WorkerPool[T]) Executed() int64 {
	return p.executed.Load()
}

// worker is the main worker loop. A failed task is remembered and reported
// on exit, but the worker keeps serving so the rest of the wave completes.
func (p *WorkerPool[T]) worker(id int) (err error) {
	log := p.conf.Logger.With().Int("worker", id).Logger()

	if p.conf.PinWorkers {
		release, core, perr := cpu.Pin(id)
		defer release()
		if perr != nil {
			log.Debug().Err(perr).Msg("cpu pinning unavailable")
		} else {
			log.Debug().Int("core", core).Msg("worker pinned")
		}
	}

	for {
		t, outcome := p.queue.Receive()
		switch outcome {
		case OutcomeShutdown:
			log.Debug().Msg("worker exiting")
			return err

		case OutcomeEmpty:
			if p.cancel.IsSet() {
				log.Debug().Msg("worker exiting")
				return err
			}
			continue
		}

		if terr := p.execute(t); terr != nil && err == nil {
			err = terr
		}
	}
}

// execute runs one pairwise addition with panic recovery. The task's barrier
// is signaled whether or not the addition succeeded.
func (p *WorkerPool[T]) execute(t Task) (err error) {
	defer t.done()
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic in wave %d at index %d: %v\nstack trace:\n%s", t.Wave, t.Left, r, buf[:n])
		}
	}()

	if p.conf.BeforeTaskStart != nil {
		p.conf.BeforeTaskStart(t)
	}

	p.buf[t.Left] += p.buf[t.Right()]
	p.executed.Add(1)

	if p.conf.OnTaskEnd != nil {
		p.conf.OnTaskEnd(t)
	}
	return nil
}
