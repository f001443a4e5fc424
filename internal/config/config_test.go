package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	t.Setenv("KSAI_PROC_STATE_DIR", t.TempDir())
	t.Setenv("KSAIPROC_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, "info", cfg.LevelOrDefault())
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  poll_interval_ms: 500\nlog:\n  level: debug\n"), 0644))
	t.Setenv("KSAIPROC_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, "debug", cfg.LevelOrDefault())
}
