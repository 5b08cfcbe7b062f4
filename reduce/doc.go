// Package reduce sums numeric buffers with a parallel pairwise ("wave")
// reduction and checks the result against a sequential oracle.
//
// Each wave pairs the element at index i with the element at length-1-i for
// every i below length/2 and stores the sum at i. The unpaired middle element
// of an odd-length wave is carried over untouched, so the live length shrinks
// to ceil(length/2) per wave until a single element, the sum, is left at
// index 0.
//
// The primary type is Engine[T], a dispatcher that owns a fixed pool of
// long-lived workers for the duration of one reduction. Every wave is split
// into independent pairwise-addition tasks, published through a queue, and
// awaited on a per-wave barrier before the next wave starts.
//
// # Basic Usage
//
//	buf := []float64{1, 2, 3, 4, 5, 6, 7, 8}
//	sum := reduce.ParallelReduce(buf, runtime.NumCPU())
//	// sum == 36, buf[0] == 36
//
// # Step-by-step
//
// The engine exposes its lifecycle for callers that want to observe each
// wave:
//
//	e := reduce.NewEngine[int64](reduce.WithWorkerCount(4))
//	if err := e.Start(buf); err != nil {
//	    return err
//	}
//	for n := len(buf); n > 1; {
//	    if n, err = e.RunWave(); err != nil {
//	        break
//	    }
//	}
//	sum, err := e.Shutdown()
//
// # Backends
//
//   - BackendDispatcher: the persistent worker pool (default)
//   - BackendChunked: one goroutine per index range per wave
//   - BackendSequential: the single-threaded oracle
//
// All three perform the same additions in the same per-index order, so they
// agree bit for bit on floating-point input as well.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithTolerance(eps): float comparison tolerance (default: 1e-9)
//   - WithBackend(b): backend used by Sum and Verify
//   - WithQueueCapacity(n): task ring capacity (default: 65536, never more
//     than the first wave needs)
//   - WithBackoff(type, initial, max): producer pacing when the ring is full
//   - WithCPUAffinity(): pin workers to logical CPUs
//   - WithLogger(l): zerolog logger for lifecycle events
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): per-task instrumentation
//
// # Validation
//
// Verify runs the sequential oracle and the configured backend on copies of
// the same input. A mismatch is reported in the returned Comparison, never as
// an error. Integer results must be equal; float results must be within the
// configured tolerance.
//
// Integer overflow is not detected.
package reduce
