package cycles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowIsMonotonic(t *testing.T) {
	a := Now()
	time.Sleep(time.Millisecond)
	b := Now()
	assert.Greater(t, b, a)
}

func TestSinceSubtractsOverhead(t *testing.T) {
	start := Now()
	d := Since(start)
	// Two back-to-back reads must not report more than a generous bound.
	assert.Less(t, d, uint64(1_000_000))
}

func TestOverheadIsStable(t *testing.T) {
	o1 := Overhead()
	o2 := Overhead()
	assert.Equal(t, o1, o2)
}

func TestHzAndToDuration(t *testing.T) {
	f := Hz()
	require.Greater(t, f, 0.0)

	// One second worth of ticks converts back to roughly one second.
	d := ToDuration(uint64(f))
	assert.InDelta(t, float64(time.Second), float64(d), float64(time.Millisecond))
}

func TestSource(t *testing.T) {
	assert.Contains(t, []string{"rdtsc", "monotonic"}, Source())
}
