package algorithms

import (
	"cmp"
	"math/rand"
	"sync"
	"time"
)

const (
	maxShift = 63 // Prevent overflow in backoff calculation
)

// jitteredBackoff adds randomization to exponential backoff.
// Delay formula: exponentialDelay * (1 ± jitterFactor)
//
// Example with jitterFactor=0.1:
// Base delay of 1µs becomes a random value between 900ns and 1.1µs
type jitteredBackoff struct {
	initialDelay, maxDelay time.Duration
	jitterFactor           float64 // 0.0 to 1.0 (e.g., 0.1 = ±10% jitter)
	rng                    *rand.Rand
	mu                     sync.Mutex // rand.Rand is not safe for concurrent use
}

// newJitteredBackoff creates a new jittered backoff strategy.
// jitterFactor is clamped to [0, 1].
func newJitteredBackoff(initialDelay, maxDelay time.Duration, jitterFactor float64) *jitteredBackoff {
	return &jitteredBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		jitterFactor: clamp(jitterFactor, 0, 1),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- crypto rand not needed for backoff jitter
	}
}

// NextDelay calculates the jittered exponential backoff delay.
func (jb *jitteredBackoff) NextDelay(attemptNumber int) time.Duration {
	if attemptNumber < 0 {
		return 0
	}

	baseDelay := calcExponentialDelay(attemptNumber, jb.initialDelay, jb.maxDelay)

	jb.mu.Lock()
	jitterMultiplier := 1.0 + (jb.rng.Float64()*2-1)*jb.jitterFactor
	jb.mu.Unlock()

	actualDelay := time.Duration(float64(baseDelay) * jitterMultiplier)
	return clamp(actualDelay, 0, jb.maxDelay)
}

// exponentialBackoff implements simple exponential backoff.
// Delay formula: initialDelay * 2^attemptNumber, capped at maxDelay.
type exponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
}

func newExponentialBackoff(initialDelay, maxDelay time.Duration) *exponentialBackoff {
	return &exponentialBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

// NextDelay calculates the exponential backoff delay for the given attempt number.
func (eb *exponentialBackoff) NextDelay(attemptNumber int) time.Duration {
	return calcExponentialDelay(attemptNumber, eb.initialDelay, eb.maxDelay)
}

func calcExponentialDelay(attemptNumber int, initialDelay, maxDelay time.Duration) time.Duration {
	if attemptNumber < 0 {
		return 0
	}

	if attemptNumber >= maxShift {
		return maxDelay
	}

	backoffFactor := int64(1) << uint(attemptNumber)
	delay := time.Duration(backoffFactor) * initialDelay

	if delay > maxDelay || delay < 0 {
		return maxDelay
	}
	return delay
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
