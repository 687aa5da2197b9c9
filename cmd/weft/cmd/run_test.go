package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-weft/weft/pkg/trace"
)

const lampScenario = `name: light-the-lamp
steps:
  - set: {prop: lit, value: true}
  - expect:
      glow: "#ffffcc00"
      label: "on"
`

const pulseSrc = `schema: v1
component: Pulse
properties:
  - {name: hot, type: bool, direction: inout, value: false}
  - name: tint
    type: color
    direction: out
    value: "#ff000000"
    animate: {duration: 100ms, easing: linear}
states:
  - name: heating
    when: {ref: hot}
    set: {tint: "#ffffffff"}
`

const pulseScenario = `name: warm-up
steps:
  - set: {prop: hot, value: true}
  - tick: settle
  - expect:
      tint: "#ffffffff"
`

func TestRunPlaysScenario(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "lamp.weft.yaml", lampSrc)
	sc := writeFile(t, dir, "light.yaml", lampScenario)

	buf := &bytes.Buffer{}
	cmd := newRunCommand(testOpts("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{def, "--scenario", sc})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "scenario light-the-lamp")
	assert.Contains(t, out, "== step 1: set lit = true")
	assert.Contains(t, out, "glow color = #ffffcc00")
	assert.NotContains(t, out, "MISMATCH")
}

func TestRunHonorsConfiguredTickStep(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "pulse.weft.yaml", pulseSrc)
	sc := writeFile(t, dir, "warm.yaml", pulseScenario)

	// At 50ms per frame a 100ms segment settles in two ticks: the set
	// cascade is 1, the ticks are 2 and 3.
	opts := testOpts("text")
	opts.Config.TickStep = 50 * time.Millisecond

	buf := &bytes.Buffer{}
	cmd := newRunCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{def, "--scenario", sc})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "(cascade 3)")
	assert.Contains(t, buf.String(), "tint color = #ffffffff")
}

func TestRunReportsMismatch(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "lamp.weft.yaml", lampSrc)
	sc := writeFile(t, dir, "dark.yaml", `name: stay-dark
steps:
  - set: {prop: lit, value: true}
  - expect:
      glow: "#ff202020"
`)

	buf := &bytes.Buffer{}
	cmd := newRunCommand(testOpts("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{def, "--scenario", sc})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, buf.String(), "MISMATCH glow: got #ffffcc00, want #ff202020")
}

func TestRunRecordsTrace(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "lamp.weft.yaml", lampSrc)
	sc := writeFile(t, dir, "light.yaml", lampScenario)
	db := filepath.Join(dir, "runs.db")

	buf := &bytes.Buffer{}
	cmd := newRunCommand(testOpts("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{def, "--scenario", sc, "--trace", db})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "trace session ")

	st, err := trace.Open(db)
	require.NoError(t, err)
	defer st.Close()
	sessions, err := st.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "light-the-lamp", sessions[0].Label)
	assert.Equal(t, 1, sessions[0].Cascades)
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "lamp.weft.yaml", lampSrc)
	sc := writeFile(t, dir, "light.yaml", lampScenario)

	buf := &bytes.Buffer{}
	cmd := newRunCommand(testOpts("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{def, "--scenario", sc})

	require.NoError(t, cmd.Execute())

	var report runReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "light-the-lamp", report.Scenario)
	assert.False(t, report.Failed)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, "set lit = true", report.Steps[0].Label)
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "lamp.weft.yaml", lampSrc)
	sc := writeFile(t, dir, "light.yaml", lampScenario)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "unknown theme",
			args: []string{def, "--scenario", sc, "--theme", "neon"},
			want: "resolve theme",
		},
		{
			name: "missing scenario file",
			args: []string{def, "--scenario", filepath.Join(dir, "absent.yaml")},
			want: "load scenario",
		},
		{
			name: "missing definition",
			args: []string{filepath.Join(dir, "absent.weft.yaml"), "--scenario", sc},
			want: "load definitions",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRunCommand(testOpts("text"))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, exitCommandError, exitCode(err))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
