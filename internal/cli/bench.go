package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/owlgo/bench"
	"github.com/hupe1980/owlgo/loader"
	"github.com/hupe1980/owlgo/perf"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	Calls            int
	Workers          int
	Budget           uint64
	MaxViolationRate float64
	Mix              string
	Skew             float64
	Seed             int64
	BaselineMean     float64
	RegressionFactor float64
}

// BenchReport is the printed form of a bench run.
type BenchReport struct {
	Name          string  `json:"name"`
	Calls         int     `json:"calls"`
	Workers       int     `json:"workers"`
	Mix           string  `json:"mix"`
	Platform      string  `json:"platform"`
	Budget        uint64  `json:"budget_cycles"`
	MeanCycles    float64 `json:"mean_cycles"`
	MinCycles     uint64  `json:"min_cycles"`
	MaxCycles     uint64  `json:"max_cycles"`
	P50           uint64  `json:"p50_cycles"`
	P95           uint64  `json:"p95_cycles"`
	P99           uint64  `json:"p99_cycles"`
	ViolationRate float64 `json:"violation_rate"`
	NsPerQuery    float64 `json:"ns_per_query"`
	Duration      string  `json:"duration"`
	Passed        bool    `json:"passed"`
	Regressed     bool    `json:"regressed"`
}

// WriteText writes the report as aligned key/value lines.
func (r *BenchReport) WriteText(w io.Writer) error {
	verdict := "PASS"
	switch {
	case !r.Passed:
		verdict = "FAIL budget"
	case r.Regressed:
		verdict = "FAIL regression"
	}
	_, err := fmt.Fprintf(w, `ontology:       %s
platform:       %s
calls:          %d (%d workers, %s)
budget:         %d cycles
mean:           %.2f cycles
min/max:        %d/%d cycles
p50/p95/p99:    %d/%d/%d cycles
violations:     %.4f%%
ns/query:       %.2f
duration:       %s
result:         %s
`, r.Name, r.Platform, r.Calls, r.Workers, r.Mix, r.Budget, r.MeanCycles,
		r.MinCycles, r.MaxCycles, r.P50, r.P95, r.P99, r.ViolationRate*100,
		r.NsPerQuery, r.Duration, verdict)
	return err
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	def := bench.DefaultConfig()
	opts := &BenchOptions{}

	cmd := &cobra.Command{
		Use:   "bench <ontology.yaml>",
		Short: "Measure query cost against the cycle budget",
		Long: `Materialize an ontology and issue random queries from concurrent
readers, measuring each call in CPU cycles.

Exits 1 when the share of calls over --budget exceeds
--max-violation-rate, or when --baseline-mean is set and the mean cost
exceeds it by more than --regression-factor.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Calls, "calls", def.Calls, "total queries")
	cmd.Flags().IntVar(&opts.Workers, "workers", def.Workers, "concurrent readers")
	cmd.Flags().Uint64Var(&opts.Budget, "budget", perf.DefaultBudgetCycles, "cycle budget per query")
	cmd.Flags().Float64Var(&opts.MaxViolationRate, "max-violation-rate", perf.DefaultMaxViolationRate, "tolerated fraction of over-budget queries")
	cmd.Flags().StringVar(&opts.Mix, "mix", "subclass", "query mix (subclass|mixed)")
	cmd.Flags().Float64Var(&opts.Skew, "skew", 0, "Zipf exponent for id selection (0 is uniform)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", def.Seed, "workload seed")
	cmd.Flags().Float64Var(&opts.BaselineMean, "baseline-mean", 0, "baseline mean cycles for regression checks")
	cmd.Flags().Float64Var(&opts.RegressionFactor, "regression-factor", 2, "allowed slowdown over the baseline")

	return cmd
}

func runBench(ctx context.Context, rootOpts *RootOptions, opts *BenchOptions, path string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := &OutputFormatter{Format: rootOpts.Format, Writer: w}

	mix, err := bench.ParseMix(opts.Mix)
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}

	o, err := loader.LoadFile(path)
	if err != nil {
		_ = f.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeLoad, err)
	}
	e, err := loader.NewEngine(ctx, o, rootOpts.engineOptions(), loader.WithSource(path))
	if err != nil {
		_ = f.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeLoad, err)
	}
	defer e.Close()

	if err := e.Materialize(ctx); err != nil {
		_ = f.Error(ErrCodeIntegrity, err.Error(), nil)
		return WrapExitError(ExitFailure, ErrCodeIntegrity, err)
	}

	cfg := bench.Config{
		Calls:   opts.Calls,
		Workers: opts.Workers,
		Mix:     mix,
		Skew:    opts.Skew,
		Seed:    opts.Seed,
		Perf: perf.Config{
			BudgetCycles:     opts.Budget,
			MaxViolationRate: opts.MaxViolationRate,
		},
	}
	r, err := bench.Run(ctx, e, cfg)
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}

	baseline := bench.Report{Stats: perf.Stats{Calls: 1, MeanCycles: opts.BaselineMean}}
	report := &BenchReport{
		Name:          o.Name,
		Calls:         r.Calls,
		Workers:       r.Workers,
		Mix:           r.Mix.String(),
		Platform:      r.Platform.String(),
		Budget:        r.Stats.Budget,
		MeanCycles:    r.Stats.MeanCycles,
		MinCycles:     r.Stats.MinCycles,
		MaxCycles:     r.Stats.MaxCycles,
		P50:           r.Stats.P50,
		P95:           r.Stats.P95,
		P99:           r.Stats.P99,
		ViolationRate: r.Stats.ViolationRate,
		NsPerQuery:    r.NsPerQuery(),
		Duration:      r.Duration.Round(time.Microsecond).String(),
		Passed:        r.Passed(),
		Regressed:     opts.BaselineMean > 0 && r.Regressed(baseline, opts.RegressionFactor),
	}

	switch {
	case !report.Passed:
		_ = f.Error(ErrCodeBudget, r.Violation.Error(), report)
		return WrapExitError(ExitFailure, ErrCodeBudget, r.Violation)
	case report.Regressed:
		msg := fmt.Sprintf("mean %.2f cycles exceeds %.1fx baseline %.2f", r.Stats.MeanCycles, opts.RegressionFactor, opts.BaselineMean)
		_ = f.Error(ErrCodeBudget, msg, report)
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(report)
}
