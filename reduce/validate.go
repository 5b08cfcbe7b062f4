package reduce

import (
	"math"
	"slices"
	"time"

	"github.com/utkarsh5026/wavesum/internal/types"
)

// Validate reports whether two reduction results agree. Float results agree
// when |a-b| <= tolerance; integer results must be equal.
func Validate[T Number](a, b T, tolerance float64) bool {
	if !types.IsFloat[T]() {
		return a == b
	}
	return math.Abs(float64(a)-float64(b)) <= tolerance
}

// Comparison is the outcome of checking a parallel result against the
// sequential oracle. A mismatch is data, not an error.
type Comparison[T Number] struct {
	Backend        Backend
	Sequential     T
	Parallel       T
	Diff           float64 // |Sequential - Parallel|
	Tolerance      float64
	Match          bool
	SequentialTime time.Duration
	ParallelTime   time.Duration
}

// Compare builds a Comparison from two results.
func Compare[T Number](seq, par T, tolerance float64) Comparison[T] {
	return Comparison[T]{
		Sequential: seq,
		Parallel:   par,
		Diff:       math.Abs(float64(seq) - float64(par)),
		Tolerance:  tolerance,
		Match:      Validate(seq, par, tolerance),
	}
}

// Speedup returns SequentialTime / ParallelTime, or 0 if either is unknown.
func (c Comparison[T]) Speedup() float64 {
	if c.SequentialTime <= 0 || c.ParallelTime <= 0 {
		return 0
	}
	return float64(c.SequentialTime) / float64(c.ParallelTime)
}

// Verify reduces two copies of buf, one with SequentialReduce and one with
// the configured backend, and compares the results. buf itself is not
// modified. The error reports a failure of the parallel backend.
func Verify[T Number](buf []T, opts ...Option) (Comparison[T], error) {
	cfg := createConfig(opts...)

	seqBuf := slices.Clone(buf)
	start := time.Now()
	seq := SequentialReduce(seqBuf)
	seqTime := time.Since(start)

	parBuf := slices.Clone(buf)
	start = time.Now()
	par, err := sum(cfg, parBuf)
	parTime := time.Since(start)
	if err != nil {
		return Comparison[T]{Backend: cfg.backend, Sequential: seq}, err
	}

	c := Compare(seq, par, cfg.tolerance)
	c.Backend = cfg.backend
	c.SequentialTime = seqTime
	c.ParallelTime = parTime
	return c, nil
}
