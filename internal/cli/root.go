package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pdscatter/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config is loaded from the environment before any command runs.
	Config config.Config

	// Logger writes to the command's stderr.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pdscatter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pdscatter",
		Short: "pdscatter - Parkinson's Disease risk scatter",
		Long: `Unify the IHME GBD 2017 Parkinson's Disease exports into one table and
explore it as an animated scatter of risk exposure against incidence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.Logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewUnifyCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

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

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// fail classifies err as an ExitError and, in json mode, prints its error
// envelope. Text mode leaves printing to main.
func (o *RootOptions) fail(cmd *cobra.Command, exitCode int, code ErrorCode, message string, err error) error {
	exitErr := &ExitError{Code: exitCode, Kind: code, Message: message, Err: err}
	if o.Format == "json" {
		_ = o.formatter(cmd).Fail(exitErr)
	}
	return exitErr
}

// orDefault returns flag unless it is empty.
func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
