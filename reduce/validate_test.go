package reduce

import (
	"bytes"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.True(t, Validate(1.0, 1.0+1e-10, DefaultTolerance))
	assert.False(t, Validate(1.0, 1.0+1e-6, DefaultTolerance))
	assert.True(t, Validate(1.0, 1.1, 0.2))
	assert.False(t, Validate(math.NaN(), math.NaN(), DefaultTolerance))

	assert.True(t, Validate(int64(10), int64(10), 0))
	// tolerance never applies to integers
	assert.False(t, Validate(10, 11, 5))
	assert.False(t, Validate(uint8(0), uint8(255), 1000))
}

func TestCompare(t *testing.T) {
	c := Compare(3.0, 3.5, 0.1)
	assert.False(t, c.Match)
	assert.InDelta(t, 0.5, c.Diff, 1e-12)
	assert.Equal(t, 0.1, c.Tolerance)

	ci := Compare(uint32(2), uint32(7), DefaultTolerance)
	assert.False(t, ci.Match)
	assert.Equal(t, 5.0, ci.Diff)
	assert.Zero(t, ci.Speedup())
}

func TestVerify(t *testing.T) {
	buf := make([]float64, 4096)
	for i := range buf {
		buf[i] = float64(i%1000) / 1000
	}
	orig := append([]float64(nil), buf...)

	for _, b := range []Backend{BackendDispatcher, BackendChunked, BackendSequential} {
		c, err := Verify(buf, WithBackend(b), WithWorkerCount(4))
		require.NoError(t, err)
		assert.True(t, c.Match, "backend %s", b)
		assert.Equal(t, b, c.Backend)
	}
	assert.Equal(t, orig, buf, "Verify must not modify its input")
}

func TestVerify_ReportsWorkerFailure(t *testing.T) {
	_, err := Verify([]int{1, 2, 3, 4}, WithBeforeTaskStart(func(Task) { panic("x") }))
	require.Error(t, err)
}

func TestEngine_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&out)).Level(zerolog.DebugLevel)

	_, err := NewEngine[int](WithWorkerCount(2), WithLogger(logger)).Reduce([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	logs := out.String()
	assert.Contains(t, logs, `"message":"reduction started"`)
	assert.Contains(t, logs, `"message":"reduction finished"`)
	assert.Contains(t, logs, `"message":"wave complete"`)
	assert.Contains(t, logs, `"complete":true`)
}
