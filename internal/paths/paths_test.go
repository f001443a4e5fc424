package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDirDefault(t *testing.T) {
	tempDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	_ = os.Setenv("HOME", tempDir)
	_ = os.Unsetenv("KSAI_PROC_STATE_DIR")
	defer func() { _ = os.Setenv("HOME", oldHome) }()

	assert.Equal(t, filepath.Join(tempDir, ".ksaiproc"), StateDir())
}

func TestOverridesWinOverDefault(t *testing.T) {
	tempDir := t.TempDir()
	statePath := filepath.Join(tempDir, "custom", "running.json")
	schedPath := filepath.Join(tempDir, "custom", "schedule.json")
	logDir := filepath.Join(tempDir, "custom-logs")

	_ = os.Setenv("KSAI_PROC_LOG_JSON", statePath)
	_ = os.Setenv("KSAI_PROC_SCHEDULE_JSON", schedPath)
	_ = os.Setenv("KSAI_PROC_LOG_DIR", logDir)
	defer func() {
		_ = os.Unsetenv("KSAI_PROC_LOG_JSON")
		_ = os.Unsetenv("KSAI_PROC_SCHEDULE_JSON")
		_ = os.Unsetenv("KSAI_PROC_LOG_DIR")
	}()

	assert.Equal(t, statePath, RunningStatePath())
	assert.Equal(t, schedPath, SchedulePath())
	assert.Equal(t, logDir, LogDir())
}

func TestEnsureDirs(t *testing.T) {
	tempDir := t.TempDir()
	_ = os.Setenv("KSAI_PROC_LOG_JSON", filepath.Join(tempDir, "a", "running.json"))
	_ = os.Setenv("KSAI_PROC_SCHEDULE_JSON", filepath.Join(tempDir, "b", "schedule.json"))
	_ = os.Setenv("KSAI_PROC_LOG_DIR", filepath.Join(tempDir, "logs"))
	defer func() {
		_ = os.Unsetenv("KSAI_PROC_LOG_JSON")
		_ = os.Unsetenv("KSAI_PROC_SCHEDULE_JSON")
		_ = os.Unsetenv("KSAI_PROC_LOG_DIR")
	}()

	assert.NoError(t, EnsureDirs())
	assert.DirExists(t, filepath.Join(tempDir, "a"))
	assert.DirExists(t, filepath.Join(tempDir, "b"))
	assert.DirExists(t, filepath.Join(tempDir, "logs"))
}
