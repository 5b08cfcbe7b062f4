// Package cpu pins reduction workers to logical processors.
//
// Pinning is best effort: when the platform cannot pin a thread the worker
// keeps running on whatever core the Go scheduler picks, and the returned
// error only explains why.
package cpu

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned by Pin on platforms without thread affinity.
var ErrUnsupported = errors.New("cpu: thread affinity not supported on this platform")

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// coreFor maps a worker id onto a valid core index.
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}

// Pin locks the calling goroutine to its OS thread and pins that thread to the
// core assigned to workerID. The returned release func must be deferred; it is
// valid even when err is non-nil.
func Pin(workerID int) (release func(), core int, err error) {
	runtime.LockOSThread()
	core = coreFor(workerID)
	err = pinToCore(core)
	return runtime.UnlockOSThread, core, err
}
