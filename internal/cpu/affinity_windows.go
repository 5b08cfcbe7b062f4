//go:build windows

package cpu

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(core int) error {
	if core >= 64 {
		return fmt.Errorf("cpu: core %d outside the thread affinity mask", core)
	}

	// Bit N = CPU N
	mask := uintptr(1) << uint(core) // #nosec G115 -- core is in [0, 64)

	prevMask, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prevMask == 0 {
		return err
	}
	return nil
}
