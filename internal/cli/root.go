// Package cli implements the owlgo command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/owlgo"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "owlgo",
		Short: "Cycle-budgeted OWL/RDFS reasoner",
		Long: `owlgo materializes class hierarchies, equivalences and disjointness
into bit matrices and answers subsumption queries in constant time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine activity to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewBenchCommand(opts))

	return cmd
}

// engineOptions maps global flags to engine options.
func (o *RootOptions) engineOptions() []owlgo.Option {
	if !o.Verbose {
		return nil
	}
	return []owlgo.Option{owlgo.WithLogger(owlgo.NewTextLogger(slog.LevelDebug))}
}
