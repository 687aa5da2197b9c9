// Package cmd implements the weft CLI commands.
//
// The root command dispatches to subcommands (validate, run, trace)
// and carries the global output flags. Commands return exitErrors to
// signal their process exit code; Execute maps them.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/cmd/weft/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	exitFailure      = 1 // definitions invalid, scenario expectations missed
	exitCommandError = 2 // unreadable files, unknown sessions, bad flags
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"

	Config config.Config
}

var validFormats = []string{"text", "json"}

// NewRootCommand assembles the weft command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "weft",
		Short:   "weft - declarative component definitions, checked and replayed",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Long: `Weft loads declarative component definitions, validates them against
the binding engine, plays scripted scenarios under a deterministic
clock, and inspects recorded cascade traces.

Use "weft <command> --help" for more information about a command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newTraceCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func validFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exitError carries a process exit code on an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// failf builds an exit-code-1 error: the input was understood but did
// not hold up.
func failf(format string, args ...any) error {
	return &exitError{code: exitFailure, err: fmt.Errorf(format, args...)}
}

// cmdErr wraps an error as exit code 2: the command itself could not
// run.
func cmdErr(context string, err error) error {
	return &exitError{code: exitCommandError, err: fmt.Errorf("%s: %w", context, err)}
}

// exitCode extracts the exit code from an error. Unmarked errors
// (flag parsing, unknown commands) are command errors.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitCommandError
}
