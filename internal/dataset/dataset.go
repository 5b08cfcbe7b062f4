// Package dataset builds input buffers for reductions.
//
// Values are drawn from [0, 1000) so that sums of large buffers stay exact
// in float64 and within int64. Narrow integer types such as int8 wrap.
package dataset

import (
	"encoding/binary"

	"github.com/utkarsh5026/wavesum/internal/types"
	"golang.org/x/crypto/sha3"
)

// Modulus bounds every generated value.
const Modulus = 1000

// rejectAbove is the largest multiple of Modulus that fits in a uint16.
const rejectAbove = (1 << 16) / Modulus * Modulus

// Cyclic returns a buffer of n elements where element i is i % Modulus.
func Cyclic[T types.Number](n int) []T {
	buf := make([]T, n)
	for i := range buf {
		buf[i] = T(i % Modulus)
	}
	return buf
}

// CyclicSum is the exact sum of Cyclic(n).
func CyclicSum(n int) int64 {
	const cycle = Modulus * (Modulus - 1) / 2
	full, rest := int64(n/Modulus), int64(n%Modulus)
	return full*cycle + rest*(rest-1)/2
}

// Random returns n pseudo-random elements derived from seed with SHAKE-128.
// Integer elements are k and float elements are k/Modulus, with k uniform in
// [0, Modulus). The same seed yields the same buffer on every platform.
func Random[T types.Number](n int, seed uint64) []T {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], seed)

	xof := sha3.NewShake128()
	_, _ = xof.Write([]byte("wavesum/dataset"))
	_, _ = xof.Write(key[:])

	float := types.IsFloat[T]()
	buf := make([]T, n)
	block := make([]byte, 4096)
	pos := len(block)

	for i := 0; i < n; {
		if pos == len(block) {
			_, _ = xof.Read(block)
			pos = 0
		}
		v := int(binary.LittleEndian.Uint16(block[pos:]))
		pos += 2
		if v >= rejectAbove {
			continue
		}

		k := v % Modulus
		if float {
			buf[i] = T(float64(k) / Modulus)
		} else {
			buf[i] = T(k)
		}
		i++
	}
	return buf
}
