package benchmark_test

import (
	"runtime"
	"testing"
)

// ============================================================================
// BENCHMARK METHODOLOGY: clean, reproducible measurements
// ============================================================================
//
// 1. WARMUP PHASE: touch the matrices before measurement so the rows under
//    test are cache-resident and branch predictors are trained.
//
// 2. GC CONTROL: force GC after setup so engine construction garbage does
//    not trigger a collection inside the timed loop.
//
// 3. ONE QUERY PER ITERATION: each b.N iteration is exactly one query, so
//    ns/op is the per-query latency.
//
// 4. NO StopTimer/StartTimer inside the loop.
//
// Usage:
//
//   BenchLoop(b, len(pairs), func(i int) {
//       sink = e.IsSubClassOf(pairs[i].A, pairs[i].B)
//   })

// WarmupIterations is the number of warmup iterations before measurement.
const WarmupIterations = 1000

// BenchLoop warms up, collects garbage, resets the timer and runs b.N
// iterations of fn(i % queryCount).
func BenchLoop(b *testing.B, queryCount int, fn func(i int)) {
	b.Helper()
	BenchLoopWithCallback(b, queryCount, fn, nil)
}

// BenchLoopWithCallback is BenchLoop with an untimed callback after the
// measured loop, for validation or extra metrics.
func BenchLoopWithCallback(b *testing.B, queryCount int, fn func(i int), postMeasure func()) {
	b.Helper()

	// Phase 1: Warmup
	for i := 0; i < WarmupIterations; i++ {
		fn(i % queryCount)
	}

	// Phase 2: GC
	runtime.GC()

	// Phase 3: Measure
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fn(i % queryCount)
	}

	// Phase 4: Post-measurement (not timed)
	if postMeasure != nil {
		b.StopTimer()
		postMeasure()
	}
}
