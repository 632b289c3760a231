package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ballast/internal/source"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// TraceIDs generates the trace_id of JSON responses. Defaults to UUIDv7.
	TraceIDs TraceIDGenerator

	// Store resolves locations. Defaults to a store configured from the
	// BALLAST_S3_* environment.
	Store *source.Store
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ballast CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around pre-set options,
// so tests can inject trace IDs and stores.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ballast",
		Short: "ballast - point mass budgets",
		Long: `Aggregate point masses, locate their centre of gravity, and solve for the
single corrector mass that brings a loadout to a target mass and centre of gravity.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewCorrectCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatter builds the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	gen := o.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   gen.Generate(),
	}
}

// logger returns a text logger on w: info level, debug with --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// store returns the configured store, creating the default one lazily.
func (o *RootOptions) store(logger *slog.Logger) *source.Store {
	if o.Store == nil {
		o.Store = source.New(source.S3ConfigFromEnv(), logger)
	}
	return o.Store
}
