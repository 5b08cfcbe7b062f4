package algorithms

import "time"

// BackoffType selects the backoff algorithm.
type BackoffType int

const (
	// BackoffExponential uses simple exponential backoff (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered adds random jitter so that concurrent producers do not
	// retry in lockstep.
	BackoffJittered
)

// String returns the name of the backoff type.
func (b BackoffType) String() string {
	switch b {
	case BackoffJittered:
		return "jittered"
	default:
		return "exponential"
	}
}

// NewBackoffStrategy creates a backoff strategy based on the configuration.
func NewBackoffStrategy(
	backoffType BackoffType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) BackoffStrategy {
	switch backoffType {
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)

	default:
		return newExponentialBackoff(initialDelay, maxDelay)
	}
}
