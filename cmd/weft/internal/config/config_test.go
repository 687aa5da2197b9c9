package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config file lookup at an absent path so the
// host's real config never leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("WEFT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "material", cfg.Theme)
	assert.Equal(t, 16*time.Millisecond, cfg.TickStep)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WEFT_THEME", "fluent")
	t.Setenv("WEFT_TICK_STEP", "8ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fluent", cfg.Theme)
	assert.Equal(t, 8*time.Millisecond, cfg.TickStep)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: cupertino\ntick_step: 25ms\n"), 0o644))
	t.Setenv("WEFT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cupertino", cfg.Theme)
	assert.Equal(t, 25*time.Millisecond, cfg.TickStep)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: cupertino\n"), 0o644))
	t.Setenv("WEFT_CONFIG", path)
	t.Setenv("WEFT_THEME", "material-dark")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "material-dark", cfg.Theme)
}

func TestLoadRejectsBadTickStep(t *testing.T) {
	isolate(t)
	t.Setenv("WEFT_TICK_STEP", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick_step must be positive")
}
