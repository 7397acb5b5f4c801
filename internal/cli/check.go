package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/loader"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	Strict        bool
	MaxIterations int
}

// CheckReport summarizes a materialized ontology.
type CheckReport struct {
	Name          string   `json:"name"`
	Capacity      uint32   `json:"capacity"`
	Axioms        int      `json:"axioms"`
	State         string   `json:"state"`
	Passes        int      `json:"passes"`
	ClosureEdges  int      `json:"closure_edges"`
	Equivalences  int      `json:"equivalences"`
	Disjoints     int      `json:"disjoint_pairs"`
	Unsatisfiable []string `json:"unsatisfiable"`
	Integrity     string   `json:"integrity"`
}

// WriteText writes the report as aligned key/value lines.
func (r *CheckReport) WriteText(w io.Writer) error {
	unsat := "none"
	if len(r.Unsatisfiable) > 0 {
		unsat = strings.Join(r.Unsatisfiable, ", ")
	}
	rows := [][2]string{
		{"name:", r.Name},
		{"capacity:", fmt.Sprint(r.Capacity)},
		{"axioms:", fmt.Sprint(r.Axioms)},
		{"state:", r.State},
		{"passes:", fmt.Sprint(r.Passes)},
		{"closure edges:", fmt.Sprint(r.ClosureEdges)},
		{"equivalences:", fmt.Sprint(r.Equivalences)},
		{"disjoint pairs:", fmt.Sprint(r.Disjoints)},
		{"unsatisfiable:", unsat},
		{"integrity:", r.Integrity},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-16s%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <ontology.yaml>",
		Short: "Load, materialize and validate an ontology",
		Long: `Load an ontology, apply its axioms, materialize the closure and run
the integrity check. Prints a summary including unsatisfiable classes.

Exits 1 when the integrity check fails, materialization stops early, or
--strict is set and a class is unsatisfiable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when any class is unsatisfiable")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 0, "materialization pass cap (0 selects the default)")

	return cmd
}

func runCheck(ctx context.Context, rootOpts *RootOptions, opts *CheckOptions, path string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := &OutputFormatter{Format: rootOpts.Format, Writer: w}

	o, err := loader.LoadFile(path)
	if err != nil {
		_ = f.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeLoad, err)
	}

	engineOpts := rootOpts.engineOptions()
	if opts.MaxIterations > 0 {
		engineOpts = append(engineOpts, owlgo.WithMaxIterations(opts.MaxIterations))
	}
	e, err := loader.NewEngine(ctx, o, engineOpts, loader.WithSource(path))
	if err != nil {
		_ = f.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeLoad, err)
	}
	defer e.Close()

	res, matErr := e.MaterializeWithResult(ctx)
	integrityErr := e.ValidateIntegrity()

	report := newCheckReport(o, e, res.Passes)
	if integrityErr != nil {
		report.Integrity = integrityErr.Error()
	}

	switch {
	case matErr != nil:
		_ = f.Error(ErrCodeIntegrity, matErr.Error(), report)
		return WrapExitError(ExitFailure, ErrCodeIntegrity, matErr)
	case integrityErr != nil:
		_ = f.Error(ErrCodeIntegrity, integrityErr.Error(), report)
		return WrapExitError(ExitFailure, ErrCodeIntegrity, integrityErr)
	case opts.Strict && len(report.Unsatisfiable) > 0:
		msg := fmt.Sprintf("%d unsatisfiable class(es)", len(report.Unsatisfiable))
		_ = f.Error(ErrCodeIntegrity, msg, report)
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(report)
}

func newCheckReport(o *loader.Ontology, e *owlgo.Engine, passes int) *CheckReport {
	info := e.Info()
	r := &CheckReport{
		Name:          o.Name,
		Capacity:      info.Capacity,
		Axioms:        info.Axioms,
		State:         info.State.String(),
		Passes:        passes,
		ClosureEdges:  info.ClosureEdges,
		Equivalences:  info.Equivalences,
		Disjoints:     info.Disjoints,
		Unsatisfiable: []string{},
		Integrity:     "ok",
	}
	for c := range e.Unsatisfiable() {
		r.Unsatisfiable = append(r.Unsatisfiable, o.NameOf(c))
	}
	return r
}
