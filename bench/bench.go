// Package bench drives concurrent query load through a Monitored engine and
// reports cycle statistics against the budget and an optional baseline.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/internal/workload"
	"github.com/hupe1980/owlgo/perf"
)

// Mix selects the queries issued.
type Mix int

const (
	// SubClassOnly issues IsSubClassOf.
	SubClassOnly Mix = iota
	// Mixed rotates through every query kind.
	Mixed
)

func (m Mix) String() string {
	if m == Mixed {
		return "mixed"
	}
	return "subclass"
}

// ParseMix parses "subclass" or "mixed".
func ParseMix(s string) (Mix, error) {
	switch s {
	case "subclass", "":
		return SubClassOnly, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("unknown query mix %q", s)
}

// ctxCheckEvery is how many calls a worker makes between context checks.
const ctxCheckEvery = 4096

// Config configures Run.
type Config struct {
	// Calls is the total number of queries across all workers.
	Calls int
	// Workers is the number of concurrent readers.
	Workers int
	// Mix selects the query kinds.
	Mix Mix
	// Skew > 0 draws Zipf-distributed ids; 0 draws uniformly.
	Skew float64
	// Seed makes workloads reproducible.
	Seed int64
	// Perf configures the monitor.
	Perf perf.Config
}

// DefaultConfig returns 100,000 subclass queries from one reader.
func DefaultConfig() Config {
	return Config{
		Calls:   100_000,
		Workers: 1,
		Seed:    42,
		Perf:    perf.DefaultConfig(),
	}
}

// Report is the outcome of a run.
type Report struct {
	Calls    int
	Workers  int
	Mix      Mix
	Hits     int64
	Duration time.Duration
	Stats    perf.Stats
	Platform perf.Platform
	// Violation is the budget check result; nil means passed.
	Violation error
}

// Passed reports whether the budget check succeeded.
func (r Report) Passed() bool {
	return r.Violation == nil
}

// Regressed reports whether the mean cost exceeds factor times the
// baseline mean. A baseline without calls never regresses.
func (r Report) Regressed(baseline Report, factor float64) bool {
	if baseline.Stats.Calls == 0 || baseline.Stats.MeanCycles == 0 {
		return false
	}
	return r.Stats.MeanCycles > factor*baseline.Stats.MeanCycles
}

// NsPerQuery returns the wall-clock cost per call including loop overhead.
func (r Report) NsPerQuery() float64 {
	if r.Calls == 0 {
		return 0
	}
	return float64(r.Duration.Nanoseconds()) / float64(r.Calls)
}

// Run issues cfg.Calls queries against e from cfg.Workers goroutines. It
// returns an error only when ctx ends the run early; budget violations are
// reported in Report.Violation.
func Run(ctx context.Context, e *owlgo.Engine, cfg Config) (Report, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Calls <= 0 {
		return Report{}, errors.New("bench: calls must be positive")
	}
	if e.Capacity() == 0 {
		return Report{}, owlgo.ErrClosed
	}

	m := e.Monitored(cfg.Perf)
	per := cfg.Calls / cfg.Workers
	workloads := make([][]workload.Pair, cfg.Workers)
	for w := range workloads {
		n := per
		if w == cfg.Workers-1 {
			n = cfg.Calls - per*(cfg.Workers-1)
		}
		workloads[w] = workload.Seeded(cfg.Seed+int64(w), n, e.Capacity(), cfg.Skew)
	}

	hits := make([]int64, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := range workloads {
		g.Go(func() error {
			for i, p := range workloads[w] {
				if i%ctxCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if query(m, cfg.Mix, i, p) {
					hits[w]++
				}
			}
			return nil
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	r := Report{
		Calls:    cfg.Calls,
		Workers:  cfg.Workers,
		Mix:      cfg.Mix,
		Duration: elapsed,
		Stats:    m.GetStats(),
		Platform: perf.DetectPlatform(),
	}
	for _, h := range hits {
		r.Hits += h
	}
	if err != nil {
		return r, err
	}
	r.Violation = m.Validate7Tick()
	return r, nil
}

func query(m *owlgo.Monitored, mix Mix, i int, p workload.Pair) bool {
	if mix == SubClassOnly {
		return m.IsSubClassOf(p.A, p.B)
	}
	switch i % 5 {
	case 0:
		return m.IsSubClassOf(p.A, p.B)
	case 1:
		return m.IsEquivalent(p.A, p.B)
	case 2:
		return m.IsDisjoint(p.A, p.B)
	case 3:
		return m.HasPropertyCharacteristic(p.A, model.Transitive)
	default:
		_, ok := m.Domain(p.A)
		return ok
	}
}
