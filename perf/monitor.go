package perf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"sync/atomic"

	"golang.org/x/time/rate"
)

const (
	// DefaultBudgetCycles is the per-query cycle budget.
	DefaultBudgetCycles = 7

	// DefaultMaxViolationRate is the fraction of calls allowed over budget.
	DefaultMaxViolationRate = 0.05

	// HistogramBuckets is the number of log2 latency buckets.
	HistogramBuckets = 64
)

// ErrBudgetExceeded is matched by errors.Is on a *BudgetViolationError.
var ErrBudgetExceeded = errors.New("cycle budget exceeded")

// BudgetViolationError reports a violation rate above the configured
// threshold.
type BudgetViolationError struct {
	Rate      float64
	Threshold float64
	Budget    uint64
	Calls     uint64
}

func (e *BudgetViolationError) Error() string {
	return fmt.Sprintf("%.2f%% of %d calls exceeded %d cycles (threshold %.2f%%)",
		e.Rate*100, e.Calls, e.Budget, e.Threshold*100)
}

// Is makes errors.Is(err, ErrBudgetExceeded) hold.
func (e *BudgetViolationError) Is(target error) bool { return target == ErrBudgetExceeded }

// Config configures a Monitor.
type Config struct {
	// BudgetCycles is the per-call budget. Zero selects DefaultBudgetCycles.
	BudgetCycles uint64

	// MaxViolationRate is the tolerated fraction of over-budget calls.
	// Negative selects DefaultMaxViolationRate; zero tolerates none.
	MaxViolationRate float64

	// Logger receives DEBUG records for violations. Nil disables them.
	Logger *slog.Logger

	// LogRate limits violation records per second. Zero selects one per second.
	LogRate rate.Limit
}

// DefaultConfig returns the 7-cycle, 5% configuration.
func DefaultConfig() Config {
	return Config{
		BudgetCycles:     DefaultBudgetCycles,
		MaxViolationRate: DefaultMaxViolationRate,
		LogRate:          1,
	}
}

// Monitor accumulates per-call cycle counts.
type Monitor struct {
	budget    uint64
	maxRate   float64
	logger    *slog.Logger
	limiter   *rate.Limiter
	calls     atomic.Uint64
	total     atomic.Uint64
	violation atomic.Uint64
	min       atomic.Uint64
	max       atomic.Uint64
	hist      [HistogramBuckets]atomic.Uint64
}

// NewMonitor creates a Monitor from cfg.
func NewMonitor(cfg Config) *Monitor {
	if cfg.BudgetCycles == 0 {
		cfg.BudgetCycles = DefaultBudgetCycles
	}
	if cfg.MaxViolationRate < 0 {
		cfg.MaxViolationRate = DefaultMaxViolationRate
	}
	if cfg.LogRate <= 0 {
		cfg.LogRate = 1
	}

	m := &Monitor{
		budget:  cfg.BudgetCycles,
		maxRate: cfg.MaxViolationRate,
		logger:  cfg.Logger,
		limiter: rate.NewLimiter(cfg.LogRate, 1),
	}
	m.min.Store(math.MaxUint64)
	return m
}

// Budget returns the per-call cycle budget.
func (m *Monitor) Budget() uint64 {
	return m.budget
}

// Record adds one call and reports whether it exceeded the budget.
func (m *Monitor) Record(cycles uint64) bool {
	m.calls.Add(1)
	m.total.Add(cycles)
	m.hist[bucket(cycles)].Add(1)

	for {
		cur := m.min.Load()
		if cycles >= cur || m.min.CompareAndSwap(cur, cycles) {
			break
		}
	}
	for {
		cur := m.max.Load()
		if cycles <= cur || m.max.CompareAndSwap(cur, cycles) {
			break
		}
	}

	if cycles <= m.budget {
		return false
	}
	m.violation.Add(1)
	if m.logger != nil && m.limiter.Allow() {
		m.logger.Debug("cycle budget exceeded",
			"cycles", cycles,
			"budget", m.budget,
		)
	}
	return true
}

// Stats is a snapshot of a Monitor.
type Stats struct {
	Calls         uint64
	TotalCycles   uint64
	MinCycles     uint64
	MaxCycles     uint64
	MeanCycles    float64
	Violations    uint64
	ViolationRate float64
	P50           uint64
	P95           uint64
	P99           uint64
	Budget        uint64
	// Histogram[b] counts calls whose cycle count has bit length b, that
	// is, bucket 0 holds zero and bucket b holds [2^(b-1), 2^b).
	Histogram [HistogramBuckets]uint64
}

// Stats returns a snapshot of the accumulated counters.
func (m *Monitor) Stats() Stats {
	s := Stats{
		Calls:       m.calls.Load(),
		TotalCycles: m.total.Load(),
		MaxCycles:   m.max.Load(),
		Violations:  m.violation.Load(),
		Budget:      m.budget,
	}
	for b := range m.hist {
		s.Histogram[b] = m.hist[b].Load()
	}
	if s.Calls == 0 {
		return s
	}

	s.MinCycles = m.min.Load()
	s.MeanCycles = float64(s.TotalCycles) / float64(s.Calls)
	s.ViolationRate = float64(s.Violations) / float64(s.Calls)
	s.P50 = s.percentile(0.50)
	s.P95 = s.percentile(0.95)
	s.P99 = s.percentile(0.99)
	return s
}

// percentile returns the upper bound of the bucket holding quantile q,
// clamped to the observed range.
func (s *Stats) percentile(q float64) uint64 {
	var total uint64
	for _, n := range s.Histogram {
		total += n
	}
	if total == 0 {
		return 0
	}

	target := uint64(math.Ceil(q * float64(total)))
	var seen uint64
	for b, n := range s.Histogram {
		seen += n
		if seen >= target {
			return min(max(upperBound(b), s.MinCycles), s.MaxCycles)
		}
	}
	return s.MaxCycles
}

// Validate returns a *BudgetViolationError when the violation rate exceeds
// the configured threshold. A monitor with no calls is valid.
func (m *Monitor) Validate() error {
	calls := m.calls.Load()
	if calls == 0 {
		return nil
	}
	r := float64(m.violation.Load()) / float64(calls)
	if r <= m.maxRate {
		return nil
	}
	return &BudgetViolationError{
		Rate:      r,
		Threshold: m.maxRate,
		Budget:    m.budget,
		Calls:     calls,
	}
}

// Reset clears all counters. Concurrent Record calls may survive a Reset.
func (m *Monitor) Reset() {
	m.calls.Store(0)
	m.total.Store(0)
	m.violation.Store(0)
	m.min.Store(math.MaxUint64)
	m.max.Store(0)
	for b := range m.hist {
		m.hist[b].Store(0)
	}
}

func bucket(cycles uint64) int {
	return min(bits.Len64(cycles), HistogramBuckets-1)
}

func upperBound(b int) uint64 {
	if b == 0 {
		return 0
	}
	if b >= HistogramBuckets-1 {
		return math.MaxUint64
	}
	return 1<<b - 1
}
