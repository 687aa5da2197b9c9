package cmd

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-weft/weft/cmd/weft/internal/config"
)

// testOpts returns root options the way PersistentPreRunE would have
// resolved them, for driving subcommands directly.
func testOpts(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Config: config.Config{Theme: "material", TickStep: 16 * time.Millisecond},
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "weft", cmd.Use)
	assert.Contains(t, cmd.Long, "definitions")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"validate", "run", "trace"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, exitFailure, exitCode(failf("expectations missed")))
	assert.Equal(t, exitCommandError, exitCode(cmdErr("open", fmt.Errorf("no such file"))))
	assert.Equal(t, exitCommandError, exitCode(fmt.Errorf("unknown flag")))
}
