package reduce

// SequentialReduce reduces buf in place with the wave algorithm on the
// calling goroutine and returns buf[0]. It is the oracle the parallel
// backends are checked against. An empty buffer yields zero.
func SequentialReduce[T Number](buf []T) T {
	var zero T
	if len(buf) == 0 {
		return zero
	}

	for length := len(buf); length > 1; length = nextLength(length) {
		for left := range length / 2 {
			buf[left] += buf[length-1-left]
		}
	}
	return buf[0]
}

// nextLength is the live length after one wave over length elements.
func nextLength(length int) int {
	return length/2 + length%2
}

// TaskCount returns the number of pairwise additions a full reduction of
// length elements performs, summed over all waves.
func TaskCount(length int) int {
	total := 0
	for ; length > 1; length = nextLength(length) {
		total += length / 2
	}
	return total
}
