// Package perf measures query latency in CPU cycles against a per-call
// budget.
//
// A Monitor is safe for concurrent Record calls from many readers. Stats and
// Validate read a consistent-enough snapshot: counters are loaded one by one,
// so a snapshot taken during heavy recording can be off by in-flight calls.
package perf
