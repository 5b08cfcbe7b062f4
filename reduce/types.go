package reduce

import (
	"fmt"
	"strings"
	"time"

	"github.com/utkarsh5026/wavesum/internal/algorithms"
	"github.com/utkarsh5026/wavesum/internal/scheduler"
	"github.com/utkarsh5026/wavesum/internal/types"
)

// Number is the set of element types that can be reduced.
type Number = types.Number

// Task describes one pairwise addition: buf[Left] += buf[Right()] during wave
// Wave, whose live length is Length.
type Task = scheduler.Task

// BackoffType selects how a producer paces itself while the task ring is full.
type BackoffType = algorithms.BackoffType

const (
	BackoffExponential = algorithms.BackoffExponential
	BackoffJittered    = algorithms.BackoffJittered
)

// Backend selects how Sum and Verify execute the wave reduction.
type Backend int

const (
	// BackendDispatcher uses the persistent worker pool driven by Engine.
	BackendDispatcher Backend = iota
	// BackendChunked splits every wave into index ranges, one goroutine each.
	BackendChunked
	// BackendSequential runs the waves inline on the calling goroutine.
	BackendSequential
)

// String returns the backend name as accepted by ParseBackend.
func (b Backend) String() string {
	switch b {
	case BackendDispatcher:
		return "dispatcher"
	case BackendChunked:
		return "chunked"
	case BackendSequential:
		return "sequential"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dispatcher", "pool", "":
		return BackendDispatcher, nil
	case "chunked", "for-range", "range":
		return BackendChunked, nil
	case "sequential", "seq":
		return BackendSequential, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Stats summarizes one reduction run by an Engine.
type Stats struct {
	Length      int           // initial buffer length
	Waves       int           // waves completed
	Tasks       int64         // pairwise additions executed by workers
	Workers     int           // pool size (0 when no pool was needed)
	LiveWorkers int           // workers that have not exited yet
	Elapsed     time.Duration // Start to Shutdown, or to now while running

	QueueCapacity int // task ring slots (0 when no pool was needed)
}
