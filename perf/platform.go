package perf

import (
	"fmt"

	"github.com/hupe1980/owlgo/internal/cycles"
	"github.com/hupe1980/owlgo/internal/simd"
)

// Platform describes the measuring environment.
type Platform struct {
	// Features is the detected CPU feature set, e.g. "amd64/avx2+popcnt".
	Features string
	// Counter names the cycle source: "rdtsc" or "monotonic".
	Counter string
	// CounterHz is the calibrated counter frequency.
	CounterHz float64
	// Overhead is the cost of one counter read, already subtracted from
	// every recorded sample.
	Overhead uint64
}

// DetectPlatform calibrates the counter on first use.
func DetectPlatform() Platform {
	return Platform{
		Features:  simd.Detect().String(),
		Counter:   cycles.Source(),
		CounterHz: cycles.Hz(),
		Overhead:  cycles.Overhead(),
	}
}

func (p Platform) String() string {
	return fmt.Sprintf("%s counter=%s %.2fGHz overhead=%d", p.Features, p.Counter, p.CounterHz/1e9, p.Overhead)
}
