// Package cycles reads a CPU cycle counter for budget accounting.
//
// On amd64 the counter is the time-stamp counter (RDTSC). Everywhere else, and
// with the purego build tag, ticks are derived from the monotonic clock at
// NominalGHz so that cycle budgets stay comparable across hosts.
//
// The counter is not serializing: a single reading brackets a few
// instructions with a few cycles of skew. Overhead returns the calibrated cost
// of two back-to-back reads so callers can subtract it.
package cycles
