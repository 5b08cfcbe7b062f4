package reduce

import "golang.org/x/sync/errgroup"

// minChunk keeps goroutines from being spawned for a handful of pairs.
const minChunk = 1024

// ChunkedReduce reduces buf in place with the wave algorithm, splitting each
// wave's pairs into at most workerCount contiguous ranges handled by
// short-lived goroutines. It performs exactly the same additions as
// SequentialReduce and therefore returns the same value.
func ChunkedReduce[T Number](buf []T, workerCount int) T {
	var zero T
	if len(buf) == 0 {
		return zero
	}
	workerCount = max(workerCount, 1)

	for length := len(buf); length > 1; length = nextLength(length) {
		pairs := length / 2
		chunk := max((pairs+workerCount-1)/workerCount, minChunk)
		if chunk >= pairs {
			foldRange(buf, length, 0, pairs)
			continue
		}

		var g errgroup.Group
		for lo := 0; lo < pairs; lo += chunk {
			hi := min(lo+chunk, pairs)
			g.Go(func() error {
				foldRange(buf, length, lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}
	return buf[0]
}

func foldRange[T Number](buf []T, length, lo, hi int) {
	for left := lo; left < hi; left++ {
		buf[left] += buf[length-1-left]
	}
}
