package algorithms

import "time"

// BackoffStrategy computes how long a spinning producer should pause before it
// retries an operation that could not make progress (for example, publishing
// into a full ring buffer).
type BackoffStrategy interface {
	// NextDelay returns the pause before retry number attemptNumber.
	// attemptNumber is 0-indexed (0 = first retry after the initial failure).
	NextDelay(attemptNumber int) time.Duration
}
