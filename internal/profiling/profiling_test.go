package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for i := 0; i < 3; i++ {
		Track("test.Op")()
	}
	top := Top(10)
	if assert.Len(t, top, 1) {
		assert.Equal(t, "test.Op", top[0].Name)
		assert.Equal(t, 3, top[0].Calls)
	}
	_, ok := Snapshot()["test.Op"]
	assert.True(t, ok)

	before := Frames()
	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, before+1, Frames())
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "4.2ms", formatMs(4200*time.Microsecond))
	assert.Equal(t, "2ms", formatMs(2*time.Millisecond))
	assert.Equal(t, "0ms", formatMs(0))
}

func TestTopLimits(t *testing.T) {
	ResetFrame()
	Track("a")()
	Track("b")()
	assert.Len(t, Top(1), 1)
	assert.Empty(t, Top(0))
	assert.Empty(t, Top(-1))
}
