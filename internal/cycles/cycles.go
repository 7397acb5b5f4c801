package cycles

import (
	"sync"
	"time"
)

// NominalGHz converts monotonic nanoseconds to ticks on hosts without a
// readable cycle counter.
const NominalGHz = 3.0

const calibrationRounds = 1000

var (
	overheadOnce sync.Once
	overhead     uint64

	hzOnce sync.Once
	hz     float64
)

// Now returns the current counter value.
func Now() uint64 {
	return now()
}

// Since returns the ticks elapsed since start, minus the read overhead.
func Since(start uint64) uint64 {
	d := now() - start
	o := Overhead()
	if d <= o {
		return 0
	}
	return d - o
}

// Source names the counter backing Now ("rdtsc" or "monotonic").
func Source() string {
	return source
}

// Overhead returns the minimum observed cost of two back-to-back reads.
// It is calibrated once, on first use.
func Overhead() uint64 {
	overheadOnce.Do(func() {
		best := ^uint64(0)
		for i := 0; i < calibrationRounds; i++ {
			a := now()
			b := now()
			if d := b - a; d < best {
				best = d
			}
		}
		overhead = best
	})
	return overhead
}

// Hz estimates the counter frequency by sampling it against the wall clock
// for a few milliseconds. The estimate is computed once.
func Hz() float64 {
	hzOnce.Do(func() {
		const window = 5 * time.Millisecond
		t0 := time.Now()
		c0 := now()
		for time.Since(t0) < window {
		}
		c1 := now()
		elapsed := time.Since(t0)
		if elapsed > 0 {
			hz = float64(c1-c0) / elapsed.Seconds()
		}
	})
	return hz
}

// ToDuration converts a tick count to wall-clock time using Hz.
func ToDuration(ticks uint64) time.Duration {
	f := Hz()
	if f <= 0 {
		return 0
	}
	return time.Duration(float64(ticks) / f * float64(time.Second))
}
