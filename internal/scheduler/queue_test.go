package scheduler

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/wavesum/internal/algorithms"
)

func TestTaskQueue_PushTryPopOrder(t *testing.T) {
	q := NewTaskQueue(8, nil)
	b := NewWaveBarrier(1, 4)

	for i := range 4 {
		if err := q.Push(NewTask(i, 8, b)); err != nil {
			t.Fatalf("failed to push %d: %v", i, err)
		}
	}

	if q.Len() != 4 {
		t.Errorf("expected Len 4, got %d", q.Len())
	}

	for i := range 4 {
		task, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop %d reported empty", i)
		}
		if task.Left != i || task.Right() != 7-i || task.Wave != 1 {
			t.Errorf("unexpected task %+v at position %d", task, i)
		}
		if task.Barrier() != b {
			t.Errorf("task %d lost its wave barrier", i)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Error("expected empty queue")
	}
}

func TestTaskQueue_CapacityRounding(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"default", 0, DefaultQueueCapacity},
		{"power of two", 16, 16},
		{"rounded up", 17, 32},
		{"one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTaskQueue(tt.capacity, nil).Cap(); got != tt.want {
				t.Errorf("Cap() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTaskQueue_ReceiveBlocksUntilPush(t *testing.T) {
	q := NewTaskQueue(4, nil)
	got := make(chan Outcome, 1)

	go func() {
		_, outcome := q.Receive()
		got <- outcome
	}()

	select {
	case o := <-got:
		t.Fatalf("Receive returned %v before any push", o)
	case <-time.After(50 * time.Millisecond):
	}

	if err := q.Push(NewTask(0, 2, nil)); err != nil {
		t.Fatal(err)
	}

	select {
	case o := <-got:
		if o != OutcomeTask {
			t.Errorf("expected OutcomeTask, got %v", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not wake after push")
	}
}

func TestTaskQueue_CloseWakesAllReceivers(t *testing.T) {
	q := NewTaskQueue(4, nil)
	const receivers = 8

	var wg sync.WaitGroup
	var shutdowns atomic.Int32
	for range receivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, o := q.Receive(); o == OutcomeShutdown {
				shutdowns.Add(1)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receivers still parked after Close")
	}

	if shutdowns.Load() != receivers {
		t.Errorf("expected %d shutdown outcomes, got %d", receivers, shutdowns.Load())
	}
}

func TestTaskQueue_CloseDrainsGrantedTasks(t *testing.T) {
	q := NewTaskQueue(4, nil)
	for i := range 3 {
		if err := q.Push(NewTask(i, 6, nil)); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()

	for i := range 3 {
		task, o := q.Receive()
		if o != OutcomeTask || task.Left != i {
			t.Fatalf("receive %d: got (%+v, %v), want task %d", i, task, o, i)
		}
	}

	if _, o := q.Receive(); o != OutcomeShutdown {
		t.Errorf("expected OutcomeShutdown after drain, got %v", o)
	}
}

func TestTaskQueue_PushAfterClose(t *testing.T) {
	q := NewTaskQueue(4, nil)
	q.Close()
	q.Close() // idempotent

	if err := q.Push(NewTask(0, 2, nil)); err != ErrQueueClosed {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}

func TestTaskQueue_CloseStopsBlockedPush(t *testing.T) {
	q := NewTaskQueue(2, algorithms.NewBackoffStrategy(algorithms.BackoffExponential, time.Microsecond, time.Millisecond, 0))
	for i := range 2 {
		if err := q.Push(NewTask(i, 4, nil)); err != nil {
			t.Fatal(err)
		}
	}

	errC := make(chan error, 1)
	go func() {
		errC <- q.Push(NewTask(2, 6, nil))
	}()

	select {
	case err := <-errC:
		t.Fatalf("push into a full ring returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	q.Close()

	select {
	case err := <-errC:
		if err != ErrQueueClosed {
			t.Errorf("expected ErrQueueClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push kept spinning after close")
	}
}

func TestTaskQueue_WakeWithoutTaskIsEmpty(t *testing.T) {
	q := NewTaskQueue(4, nil)

	// A wake-up with nothing behind it, as a stray notification would produce.
	q.mu.Lock()
	q.permits++
	q.mu.Unlock()

	if _, o := q.Receive(); o != OutcomeEmpty {
		t.Errorf("expected OutcomeEmpty, got %v", o)
	}
}

func TestTaskQueue_FullRingStreams(t *testing.T) {
	// Far more tasks than ring slots: the producer has to wait for consumers.
	q := NewTaskQueue(4, algorithms.NewBackoffStrategy(algorithms.BackoffExponential, time.Microsecond, 50*time.Microsecond, 0))
	const total = 2000

	var seen [total]atomic.Bool
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, o := q.Receive()
				if o == OutcomeShutdown {
					return
				}
				if o == OutcomeTask && seen[task.Left].Swap(true) {
					t.Errorf("task %d received twice", task.Left)
				}
			}
		}()
	}

	for i := range total {
		if err := q.Push(NewTask(i, 2*total, nil)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	q.Close()
	wg.Wait()

	for i := range total {
		if !seen[i].Load() {
			t.Errorf("task %d never received", i)
		}
	}
}

func TestTaskQueue_ConcurrentTryPop(t *testing.T) {
	q := NewTaskQueue(1024, nil)
	const total = 1000
	for i := range total {
		if err := q.Push(NewTask(i, 2*total, nil)); err != nil {
			t.Fatal(err)
		}
	}

	var popped atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := q.TryPop(); !ok {
					return
				}
				popped.Add(1)
			}
		}()
	}
	wg.Wait()

	if popped.Load() != total {
		t.Errorf("expected %d pops, got %d", total, popped.Load())
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeTask, "task"},
		{OutcomeEmpty, "empty"},
		{OutcomeShutdown, "shutdown"},
		{Outcome(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {1000, 1024}, {65536, 65536},
		{MaxQueueCapacity - 1, MaxQueueCapacity},
		{MaxQueueCapacity + 1, MaxQueueCapacity},
		{math.MaxInt64/2 + 2, MaxQueueCapacity},
		{math.MaxInt64, MaxQueueCapacity},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
