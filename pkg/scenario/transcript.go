package scenario

import (
	"fmt"
	"strings"

	"github.com/go-weft/weft/pkg/engine"
)

// StepResult records one played step: what ran, the snapshot after it
// settled, and any expectation mismatches.
type StepResult struct {
	Index      int             `json:"index"`
	Label      string          `json:"label"`
	Snapshot   engine.Snapshot `json:"snapshot"`
	Mismatches []string        `json:"mismatches,omitempty"`
}

// Transcript is the full record of one playback.
type Transcript struct {
	Scenario string       `json:"scenario"`
	Steps    []StepResult `json:"steps"`
}

// Failed reports whether any expectation missed.
func (tr *Transcript) Failed() bool {
	for _, st := range tr.Steps {
		if len(st.Mismatches) > 0 {
			return true
		}
	}
	return false
}

// String renders the transcript as stable line-oriented text, one block
// per step. Golden tests compare against it and the CLI prints it.
func (tr *Transcript) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s\n", tr.Scenario)
	for _, st := range tr.Steps {
		fmt.Fprintf(&b, "\n== step %d: %s\n", st.Index, st.Label)
		b.WriteString(st.Snapshot.String())
		for _, m := range st.Mismatches {
			fmt.Fprintf(&b, "MISMATCH %s\n", m)
		}
	}
	return b.String()
}
