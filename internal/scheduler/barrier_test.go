package scheduler

import (
	"sync"
	"testing"
	"time"
)

func TestWaveBarrier_ReleasesAtZero(t *testing.T) {
	b := NewWaveBarrier(3, 4)
	if b.Wave() != 3 {
		t.Errorf("expected wave 3, got %d", b.Wave())
	}

	for i := range 3 {
		b.Signal()
		if b.Remaining() != 3-i {
			t.Errorf("after %d signals expected %d remaining, got %d", i+1, 3-i, b.Remaining())
		}
		select {
		case <-b.Done():
			t.Fatalf("barrier released after %d of 4 signals", i+1)
		default:
		}
	}

	b.Signal()
	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatal("barrier not released after final signal")
	}
	b.Wait() // returns immediately once released
}

func TestWaveBarrier_ZeroCountIsReleased(t *testing.T) {
	for _, count := range []int{0, -1} {
		b := NewWaveBarrier(1, count)
		select {
		case <-b.Done():
		default:
			t.Errorf("barrier with count %d should start released", count)
		}
	}
}

func TestWaveBarrier_OverSignalPanics(t *testing.T) {
	b := NewWaveBarrier(1, 1)
	b.Signal()

	defer func() {
		if recover() == nil {
			t.Error("expected panic when signaling past the count")
		}
	}()
	b.Signal()
}

func TestWaveBarrier_ConcurrentSignals(t *testing.T) {
	const n = 500
	b := NewWaveBarrier(1, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Signal()
		}()
	}

	done := make(chan struct{})
	go func() {
		b.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("barrier not released, %d remaining", b.Remaining())
	}
	wg.Wait()
}

func TestWaveBarrier_TasksSignalTheirOwnWave(t *testing.T) {
	// A straggler from wave 1 must not count against wave 2.
	wave1 := NewWaveBarrier(1, 1)
	wave2 := NewWaveBarrier(2, 1)

	stale := NewTask(0, 2, wave1)
	fresh := NewTask(0, 2, wave2)

	stale.done()
	if wave2.Remaining() != 1 {
		t.Fatalf("stale task signaled wave 2")
	}
	fresh.done()

	for _, b := range []*WaveBarrier{wave1, wave2} {
		select {
		case <-b.Done():
		default:
			t.Errorf("wave %d not released", b.Wave())
		}
	}
}
