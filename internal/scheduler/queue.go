package scheduler

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/wavesum/internal/algorithms"
)

var (
	ErrQueueClosed = errors.New("queue is closed")
)

const (
	// Cache line size for padding to prevent false sharing
	cacheLinePadding = 128
	// DefaultQueueCapacity is the ring size used when none is configured.
	// A wave larger than the ring is streamed through it.
	DefaultQueueCapacity = 65536
	// MaxQueueCapacity bounds every ring size.
	MaxQueueCapacity = 1 << 30
	// Spins on a full ring before the producer starts backing off
	maxSpinAttempts = 10
)

// Outcome tags the result of a blocking Receive.
type Outcome int

const (
	// OutcomeTask means a task was taken and must be executed.
	OutcomeTask Outcome = iota
	// OutcomeEmpty means the worker was woken but found nothing to take.
	// It is benign; the worker simply waits again.
	OutcomeEmpty
	// OutcomeShutdown means the queue is closed and drained.
	OutcomeShutdown
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeTask:
		return "task"
	case OutcomeEmpty:
		return "empty"
	case OutcomeShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// queueSlot represents a single slot in the ring buffer
type queueSlot struct {
	// Sequence number for synchronization
	sequence uint64
	// The actual data
	value Task
}

// TaskQueue is the hand-off between the dispatcher and the workers.
//
// Storage is a lock-free multi-producer multi-consumer ring. Availability is
// tracked separately by a counting wake-up (permits) guarded by a mutex and a
// condition variable: every Push adds one permit after the task is visible in
// the ring, and every Receive consumes one permit before it pops. Close marks
// the queue closed and wakes every parked receiver; receivers keep draining
// permits that were granted before the close and then observe OutcomeShutdown.
type TaskQueue struct {
	ring []queueSlot
	// Capacity mask (capacity - 1) for fast modulo
	mask uint64

	// Head and tail positions with padding to prevent false sharing
	_    [cacheLinePadding]byte
	head uint64
	_    [cacheLinePadding - 8]byte
	tail uint64
	_    [cacheLinePadding - 8]byte

	mu      sync.Mutex
	cond    *sync.Cond
	permits int
	closed  bool

	backoff  algorithms.BackoffStrategy
	capacity int
}

// NewTaskQueue creates a queue whose ring holds capacity tasks, rounded up to
// a power of two and capped at MaxQueueCapacity (0 selects the default).
// backoff paces a producer that finds the ring full; nil means yield-only
// spinning.
func NewTaskQueue(capacity int, backoff algorithms.BackoffStrategy) *TaskQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	capacity = nextPowerOfTwo(capacity)
	ring := make([]queueSlot, capacity)

	for i := range ring {
		ring[i].sequence = uint64(i) // #nosec G115 -- i is loop index within valid ring bounds
	}

	q := &TaskQueue{
		ring:     ring,
		mask:     uint64(capacity - 1), // #nosec G115 -- capacity is validated positive, no overflow possible
		backoff:  backoff,
		capacity: capacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push publishes a task and grants one wake-up for it.
// If the ring is full, Push waits for workers to free a slot.
// Returns ErrQueueClosed if the queue is closed.
func (q *TaskQueue) Push(t Task) error {
	if q.IsClosed() {
		return ErrQueueClosed
	}

	attempt := 0
	for {
		_, tail, slot, diff := q.load(false)
		if diff == 0 {
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				slot.value = t
				atomic.StoreUint64(&slot.sequence, tail+1)
				break
			}
			continue
		}

		if diff < 0 {
			if q.IsClosed() {
				return ErrQueueClosed
			}
			q.pause(attempt)
			attempt++
		}
	}

	q.mu.Lock()
	q.permits++
	q.mu.Unlock()
	q.cond.Signal()
	return nil
}

// pause waits before the producer retries a full ring.
func (q *TaskQueue) pause(attempt int) {
	if attempt < maxSpinAttempts || q.backoff == nil {
		runtime.Gosched()
		return
	}
	time.Sleep(q.backoff.NextDelay(attempt - maxSpinAttempts))
}

// TryPop takes a task without waiting for a wake-up.
// Returns (task, true) if successful, (zero, false) if the ring is empty.
// Contention with other consumers is retried, not reported as empty.
func (q *TaskQueue) TryPop() (Task, bool) {
	for {
		head, _, slot, diff := q.load(true)
		if diff == 0 {
			if val, ok := q.deque(head, slot); ok {
				return val, true
			}
			continue
		}

		if diff < 0 {
			return Task{}, false
		}
	}
}

// Receive blocks until a wake-up is available or the queue is closed and
// drained, then reports what the caller should do next.
func (q *TaskQueue) Receive() (Task, Outcome) {
	if !q.acquire() {
		return Task{}, OutcomeShutdown
	}

	if t, ok := q.TryPop(); ok {
		return t, OutcomeTask
	}
	return Task{}, OutcomeEmpty
}

// acquire consumes one wake-up, parking while none is available.
// It returns false once the queue is closed and no wake-up remains.
func (q *TaskQueue) acquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.permits == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.permits > 0 {
		q.permits--
		return true
	}
	return false
}

func (q *TaskQueue) deque(head uint64, slot *queueSlot) (Task, bool) {
	if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
		value := slot.value
		slot.value = Task{}
		// Release the slot to producers
		// if head is N, next sequence should be N + capacity
		atomic.StoreUint64(&slot.sequence, head+q.mask+1)
		return value, true
	}
	return Task{}, false
}

// load atomically loads head and tail positions and the corresponding slot
// Also computes the difference between slot sequence and expected sequence
func (q *TaskQueue) load(ishead bool) (head uint64, tail uint64, slot *queueSlot, diff int64) {
	head = atomic.LoadUint64(&q.head)
	tail = atomic.LoadUint64(&q.tail)

	pos := tail
	if ishead {
		pos = head
	}

	index := pos & q.mask
	slot = &q.ring[index]
	seq := atomic.LoadUint64(&slot.sequence)

	if ishead {
		diff = int64(seq) - int64(head+1) // #nosec G115 -- intentional conversion for sequence comparison
	} else {
		diff = int64(seq) - int64(tail) // #nosec G115 -- intentional conversion for sequence comparison
	}

	return
}

// Close marks the queue closed and wakes every parked receiver.
// Safe to call more than once.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// IsClosed reports whether Close has been called.
func (q *TaskQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the approximate number of tasks in the ring
// This is an approximation due to concurrent operations
func (q *TaskQueue) Len() int {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)

	if tail > head {
		return int(tail - head) // #nosec G115 -- safe conversion, tail > head guarantees result fits in int
	}
	return 0
}

// Cap returns the capacity of the ring
func (q *TaskQueue) Cap() int {
	return q.capacity
}

// nextPowerOfTwo returns the next power of 2 >= n, capped at MaxQueueCapacity
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if n >= MaxQueueCapacity {
		return MaxQueueCapacity
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
