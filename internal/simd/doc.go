// Package simd provides word-level kernels over []uint64 bit arrays and
// runtime CPU capability reporting.
//
// # Operations
//
//   - OrWords, OrWordsChanged: row union used by closure computation
//   - AndAny: intersection test without materializing the result
//   - PopcountWords: diagnostics
//
// The kernels are portable Go with 4-way unrolling; the compiler lowers
// bits.OnesCount64 to POPCNT/CNT where the CPU supports it. Capability
// detection exists so benchmarks and stats can report what the host offers.
package simd
