package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/pkg/component"
	"github.com/go-weft/weft/pkg/decl"
	"github.com/go-weft/weft/pkg/engine"
	"github.com/go-weft/weft/pkg/theme"
)

// fileResult is the per-file outcome of a validate run.
type fileResult struct {
	File      string `json:"file"`
	Component string `json:"component,omitempty"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
}

// validateReport is the JSON payload for the validate command.
type validateReport struct {
	Valid bool         `json:"valid"`
	Files []fileResult `json:"files"`
}

func newValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check definition files without running them",
		Long: `Validate parses each definition file, registers it, and mounts it on
a scratch runtime so structural defects (unknown references, type
mismatches, binding cycles) surface the way they would at startup.

Files are loaded in argument order; later files may embed components
defined by earlier ones.

Examples:
  weft validate panel.weft.yaml
  weft validate chip.weft.yaml panel.weft.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command, files []string) error {
	th, err := theme.Named(opts.Config.Theme)
	if err != nil {
		return cmdErr("resolve theme", err)
	}
	loader := decl.NewLoader(th)

	out := cmd.OutOrStdout()
	results := make([]fileResult, 0, len(files))
	failures := 0
	for _, path := range files {
		slog.Debug("validating definition", "file", path)
		res := fileResult{File: path, Valid: true}
		tmpl, err := loader.LoadFile(path)
		if err == nil {
			res.Component = tmpl.Name()
			err = mountCheck(tmpl)
		}
		if err != nil {
			res.Valid = false
			res.Error = err.Error()
			failures++
		}
		results = append(results, res)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(validateReport{Valid: failures == 0, Files: results}); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(out, "✓ %s (%s)\n", res.File, res.Component)
				continue
			}
			fmt.Fprintf(out, "✗ %s\n    %s\n", res.File, res.Error)
		}
	}

	if failures > 0 {
		return failf("validation failed for %d of %d file(s)", failures, len(files))
	}
	return nil
}

// mountCheck instantiates the template on a throwaway runtime. Sealing
// the graph is what runs the static cycle check.
func mountCheck(tmpl *component.Template) error {
	rt := engine.New()
	if _, err := rt.Mount("root", tmpl); err != nil {
		return err
	}
	return rt.Start()
}
