package reduce

import (
	"fmt"
	"slices"
)

// ParallelReduce reduces buf in place with a dispatcher and workerCount
// persistent workers and returns the sum, which is also left at buf[0].
// Length 0 yields zero; length 1 yields buf[0] without starting workers.
//
// Worker failures can only come from hooks passed in opts; ParallelReduce
// panics with the worker error in that case. Use Engine.Reduce to receive
// it as an error instead.
func ParallelReduce[T Number](buf []T, workerCount int, opts ...Option) T {
	opts = append(slices.Clip(opts), WithWorkerCount(workerCount))
	v, err := NewEngine[T](opts...).Reduce(buf)
	if err != nil {
		panic(err)
	}
	return v
}

// Sum reduces buf in place with the backend selected by WithBackend
// (BackendDispatcher by default).
func Sum[T Number](buf []T, opts ...Option) (T, error) {
	return sum(createConfig(opts...), buf)
}

func sum[T Number](cfg *config, buf []T) (T, error) {
	switch cfg.backend {
	case BackendDispatcher:
		return (&Engine[T]{conf: cfg}).Reduce(buf)
	case BackendChunked:
		return ChunkedReduce(buf, cfg.workerCount), nil
	case BackendSequential:
		return SequentialReduce(buf), nil
	default:
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.backend)
	}
}
