package benchmarks

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/wavesum/internal/dataset"
	"github.com/utkarsh5026/wavesum/reduce"
)

// strategyConfig defines a benchmark configuration for a reduction backend
type strategyConfig struct {
	name string
	opts []reduce.Option
}

// getAllStrategies returns every backend configured with workerCount workers
func getAllStrategies(workerCount int) []strategyConfig {
	return []strategyConfig{
		{
			name: "Sequential",
			opts: []reduce.Option{
				reduce.WithBackend(reduce.BackendSequential),
			},
		},
		{
			name: "Dispatcher",
			opts: []reduce.Option{
				reduce.WithWorkerCount(workerCount),
				reduce.WithBackend(reduce.BackendDispatcher),
			},
		},
		{
			name: "Dispatcher_Pinned",
			opts: []reduce.Option{
				reduce.WithWorkerCount(workerCount),
				reduce.WithBackend(reduce.BackendDispatcher),
				reduce.WithCPUAffinity(),
			},
		},
		{
			name: "Chunked",
			opts: []reduce.Option{
				reduce.WithWorkerCount(workerCount),
				reduce.WithBackend(reduce.BackendChunked),
			},
		},
	}
}

// getQueueStrategies returns dispatcher configurations with a small ring so
// that large waves are streamed through it
func getQueueStrategies(workerCount, queueSize int) []strategyConfig {
	return []strategyConfig{
		{
			name: "Exponential",
			opts: []reduce.Option{
				reduce.WithWorkerCount(workerCount),
				reduce.WithQueueCapacity(queueSize),
				reduce.WithBackoff(reduce.BackoffExponential, time.Microsecond, 100*time.Microsecond),
			},
		},
		{
			name: "Jittered",
			opts: []reduce.Option{
				reduce.WithWorkerCount(workerCount),
				reduce.WithQueueCapacity(queueSize),
				reduce.WithBackoff(reduce.BackoffJittered, time.Microsecond, 100*time.Microsecond),
			},
		},
	}
}

// runStrategyBenchmark runs a benchmark function for all strategies
func runStrategyBenchmark(b *testing.B, strategies []strategyConfig, benchFunc func(b *testing.B, s strategyConfig)) {
	for _, strategy := range strategies {
		b.Run(strategy.name, func(b *testing.B) {
			benchFunc(b, strategy)
		})
	}
}

// benchmarkReduce reduces a fresh copy of input b.N times and reports
// element throughput.
func benchmarkReduce[T reduce.Number](b *testing.B, input []T, opts ...reduce.Option) {
	buf := make([]T, len(input))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		copy(buf, input)
		b.StartTimer()

		if _, err := reduce.Sum(buf, opts...); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
	b.ReportMetric(float64(len(input))/nsPerOp*1e9, "elems/sec")
}

// cyclicInput returns the cyclic dataset for n elements as int64 and float64
func cyclicInput(n int) ([]int64, []float64) {
	return dataset.Cyclic[int64](n), dataset.Cyclic[float64](n)
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	// nearest-rank: p=0.50 over 100 elements picks index 49
	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
