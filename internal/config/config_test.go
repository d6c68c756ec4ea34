package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Extensions.M)
	assert.False(t, cfg.Extensions.A)
	assert.True(t, cfg.Execution.AdvancePCOnEcall)
	assert.Zero(t, cfg.Execution.MaxSteps)
	assert.False(t, cfg.Trace.Enabled)
}

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[extensions]
m = true
a = true

[execution]
max_steps = 1000
step_delay_millis = 5
advance_pc_on_ecall = false

[trace]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Extensions.M)
	assert.True(t, cfg.Extensions.A)
	assert.Equal(t, uint64(1000), cfg.Execution.MaxSteps)
	assert.Equal(t, 5, cfg.Execution.StepDelayMillis)
	assert.False(t, cfg.Execution.AdvancePCOnEcall)
	assert.True(t, cfg.Trace.Enabled)
}
