package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/pkg/trace"
)

// traceOptions holds flags for the trace command.
type traceOptions struct {
	*RootOptions
	Session string
}

// sessionDump is the JSON payload for a single-session dump.
type sessionDump struct {
	Session  string          `json:"session"`
	Cascades []trace.Cascade `json:"cascades"`
}

func newTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &traceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace DB",
		Short: "Inspect a recorded cascade trace",
		Long: `Trace reads a database written by "run --trace". Without --session it
lists the recorded sessions; with --session it dumps that session's
cascades and the value transitions each one committed.

Examples:
  weft trace runs.db
  weft trace runs.db --session 4b26a4e5-55a5-4e54-8f4b-0b7f77f10b5e`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "dump one session instead of listing")

	return cmd
}

func runTraceCmd(opts *traceOptions, cmd *cobra.Command, path string) error {
	// Open would create a fresh database; inspecting demands one that
	// already exists.
	if _, err := os.Stat(path); err != nil {
		return cmdErr("open trace database", err)
	}
	st, err := trace.Open(path)
	if err != nil {
		return cmdErr("open trace database", err)
	}
	defer st.Close()

	if opts.Session == "" {
		return listSessions(opts, cmd, st)
	}
	return dumpSession(opts, cmd, st)
}

func listSessions(opts *traceOptions, cmd *cobra.Command, st *trace.Store) error {
	sessions, err := st.Sessions()
	if err != nil {
		return cmdErr("list sessions", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "no sessions recorded")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-20s  %8s  %s\n", "SESSION", "STARTED", "CASCADES", "LABEL")
	for _, s := range sessions {
		fmt.Fprintf(out, "%-36s  %-20s  %8d  %s\n",
			s.ID, s.StartedAt.UTC().Format(time.DateTime), s.Cascades, s.Label)
	}
	return nil
}

func dumpSession(opts *traceOptions, cmd *cobra.Command, st *trace.Store) error {
	cascades, err := st.Replay(opts.Session)
	if err != nil {
		return cmdErr("replay session", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessionDump{Session: opts.Session, Cascades: cascades})
	}

	fmt.Fprintf(out, "session %s\n", opts.Session)
	for _, c := range cascades {
		if c.Detail != "" {
			fmt.Fprintf(out, "cascade %d %s %s\n", c.Seq, c.Kind, c.Detail)
		} else {
			fmt.Fprintf(out, "cascade %d %s\n", c.Seq, c.Kind)
		}
		for _, tr := range c.Transitions {
			fmt.Fprintf(out, "  %s: %s -> %s\n", tr.Cell, tr.Old, tr.New)
		}
	}
	return nil
}
