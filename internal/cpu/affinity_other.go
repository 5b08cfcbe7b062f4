//go:build !linux && !windows

package cpu

// pinToCore is unavailable here (macOS exposes no per-thread pinning);
// the goroutine stays locked to its thread only.
func pinToCore(int) error {
	return ErrUnsupported
}
