// Package test provides test utilities and helpers for ksaiproc tests.
package test

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnv isolates the three KSAI_PROC_* storage paths (and HOME) for one
// test, mirroring the original implementation's pytest `test_env` fixture:
// every test gets its own running-state file, schedule file, and log
// directory, so concurrent test functions never collide on disk.
type TestEnv struct {
	Dir          string
	LogsDir      string
	StateFile    string
	ScheduleFile string

	restore map[string]string
}

// NewTestEnv creates a fresh isolated environment and points the
// KSAI_PROC_* env vars at it for the duration of the test.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		t.Fatalf("creating logs dir: %v", err)
	}

	env := &TestEnv{
		Dir:          dir,
		LogsDir:      logsDir,
		StateFile:    filepath.Join(logsDir, "runningscripts.json"),
		ScheduleFile: filepath.Join(logsDir, "scheduledscripts.json"),
		restore:      make(map[string]string),
	}

	vars := map[string]string{
		"HOME":                    dir,
		"KSAI_PROC_STATE_DIR":     dir,
		"KSAI_PROC_LOG_JSON":      env.StateFile,
		"KSAI_PROC_SCHEDULE_JSON": env.ScheduleFile,
		"KSAI_PROC_LOG_DIR":       logsDir,
	}
	for key, value := range vars {
		env.restore[key] = os.Getenv(key)
		_ = os.Setenv(key, value)
	}

	t.Cleanup(env.restoreEnv)
	return env
}

func (e *TestEnv) restoreEnv() {
	for key, value := range e.restore {
		if value == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, value)
		}
	}
}
