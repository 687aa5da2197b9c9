package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/pkg/decl"
	"github.com/go-weft/weft/pkg/engine"
	"github.com/go-weft/weft/pkg/scenario"
	"github.com/go-weft/weft/pkg/theme"
	"github.com/go-weft/weft/pkg/trace"
)

// runOptions holds flags for the run command.
type runOptions struct {
	*RootOptions
	Scenario string
	Trace    string
	Theme    string
}

// runReport is the JSON payload for the run command.
type runReport struct {
	Scenario string                `json:"scenario"`
	Steps    []scenario.StepResult `json:"steps"`
	Failed   bool                  `json:"failed"`
	Session  string                `json:"session,omitempty"`
}

func newRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run FILE... --scenario SCENARIO",
		Short: "Play a scripted scenario against a definition",
		Long: `Run mounts the last definition file's component on a runtime, pins a
deterministic clock, and plays the scenario's steps against it. After
each step the settled snapshot is captured; the transcript prints when
playback finishes.

Expectation mismatches do not stop playback, but they fail the command.
With --trace, every cascade and committed transition of the playback is
recorded as a new session in the given SQLite database.

Examples:
  weft run checkbox.weft.yaml --scenario toggle.yaml
  weft run chip.weft.yaml panel.weft.yaml --scenario hover.yaml --trace runs.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario file to play (required)")
	_ = cmd.MarkFlagRequired("scenario")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "record the playback into this SQLite database")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "component theme (default from config)")

	return cmd
}

func runScenario(opts *runOptions, cmd *cobra.Command, files []string) error {
	themeName := opts.Theme
	if themeName == "" {
		themeName = opts.Config.Theme
	}
	th, err := theme.Named(themeName)
	if err != nil {
		return cmdErr("resolve theme", err)
	}

	loader := decl.NewLoader(th)
	tmpl, err := loader.LoadFiles(files...)
	if err != nil {
		return cmdErr("load definitions", err)
	}
	slog.Debug("definitions loaded", "component", tmpl.Name(), "files", len(files))

	sc, err := scenario.Load(opts.Scenario)
	if err != nil {
		return cmdErr("load scenario", err)
	}

	rt := engine.New()

	var session *trace.Session
	if opts.Trace != "" {
		st, err := trace.Open(opts.Trace)
		if err != nil {
			return cmdErr("open trace database", err)
		}
		defer st.Close()
		session, err = st.Begin(sc.Name)
		if err != nil {
			return cmdErr("begin trace session", err)
		}
		if err := rt.SetRecorder(session); err != nil {
			return cmdErr("attach recorder", err)
		}
		slog.Debug("recording trace", "db", opts.Trace, "session", session.ID())
	}

	root, err := rt.Mount("root", tmpl)
	if err != nil {
		return cmdErr("mount component", err)
	}

	// The player pins the fake clock; create it before Start so
	// animation segments armed during activation read scripted time.
	player := scenario.NewPlayer(rt, root)
	defer player.Close()
	player.FrameStep = opts.Config.TickStep

	if err := rt.Start(); err != nil {
		return cmdErr("start runtime", err)
	}

	tr, err := player.Run(sc)
	if err != nil {
		return cmdErr("play scenario", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		report := runReport{Scenario: tr.Scenario, Steps: tr.Steps, Failed: tr.Failed()}
		if session != nil {
			report.Session = session.ID()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, tr.String())
		if session != nil {
			fmt.Fprintf(out, "\ntrace session %s\n", session.ID())
		}
	}

	if tr.Failed() {
		return failf("scenario %q failed", sc.Name)
	}
	return nil
}
