// Package launcher implements the run/stop/restart/remove protocol for
// supervised children: detached spawn, per-run log redirection, and the
// wall-clock timeout watchdog.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ksaiproc/ksaiproc/internal/paths"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// stopGrace is how long Stop waits after SIGTERM before escalating to
// SIGKILL.
const stopGrace = 3 * time.Second

// Launcher spawns and supervises child processes on behalf of both the CLI
// `run` command and the scheduler daemon.
type Launcher struct {
	running    *store.RunningState
	logDir     string
	executable string
	logger     zerolog.Logger
}

// New creates a Launcher. executable is the path to the current binary,
// used to re-exec the hidden watchdog subcommand.
func New(running *store.RunningState, logDir, executable string, logger zerolog.Logger) *Launcher {
	return &Launcher{
		running:    running,
		logDir:     logDir,
		executable: executable,
		logger:     logger.With().Str("component", "launcher").Logger(),
	}
}

// Run spawns argv detached from the caller's terminal, redirecting
// stdout/stderr to a per-run log file, and records it in RunningState. If
// timeout is non-nil, a detached watchdog process is spawned alongside it.
func (l *Launcher) Run(argv []string, name string, timeout *time.Duration) (store.RunningRecord, error) {
	if len(argv) == 0 {
		return store.RunningRecord{}, fmt.Errorf("invalid argv: empty command")
	}

	displayName := name
	if displayName == "" {
		displayName = filepath.Base(argv[0]) + "-" + uuid.New().String()[:6]
	}

	logFile, logPath, err := l.createLogFile(displayName)
	if err != nil {
		return store.RunningRecord{}, fmt.Errorf("creating log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = nil
	devNull, err := os.Open(os.DevNull)
	if err == nil {
		cmd.Stdin = devNull
		defer func() { _ = devNull.Close() }()
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return store.RunningRecord{}, fmt.Errorf("spawning %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid
	// Reap the OS-level wait status asynchronously so the child doesn't
	// become a zombie once it exits. When this goroutine does get to
	// observe the exit (chiefly: jobs launched by the long-lived scheduler
	// daemon, which outlives the CLI invocation that spawned an ad-hoc
	// `run`), a clean exit marks the record completed rather than leaving
	// it for the reaper to later misclassify as killed (external). Stop,
	// Restart and the timeout watchdog all set a more specific terminal
	// status directly and unconditionally, so they win any race against
	// this goroutine.
	go func() {
		if err := cmd.Wait(); err == nil {
			_ = l.running.CompleteIfRunning(pid)
		}
	}()

	var timeoutSecs *int64
	if timeout != nil {
		secs := int64(timeout.Seconds())
		timeoutSecs = &secs
	}

	rec := store.RunningRecord{
		PID:         cmd.Process.Pid,
		DisplayName: displayName,
		CmdStr:      strings.Join(argv, " "),
		Argv:        argv,
		Status:      store.StatusRunning,
		LogFile:     logPath,
		StartedAt:   time.Now().Unix(),
		TimeoutSecs: timeoutSecs,
	}

	if err := l.running.Insert(rec); err != nil {
		return store.RunningRecord{}, fmt.Errorf("recording launched process: %w", err)
	}

	if timeoutSecs != nil {
		if err := l.spawnWatchdog(rec.PID, *timeoutSecs); err != nil {
			l.logger.Error().Err(err).Int("pid", rec.PID).Msg("failed to spawn timeout watchdog")
		}
	}

	l.logger.Info().Int("pid", rec.PID).Str("name", displayName).Msg("launched process")
	return rec, nil
}

// Stop sends SIGTERM, waits stopGrace, escalates to SIGKILL if needed, and
// transitions the record to StatusKilled.
func (l *Launcher) Stop(pid int) error {
	if _, ok, err := l.running.Get(pid); err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}

	terminate(pid)
	deadline := time.Now().Add(stopGrace)
	for time.Now().Before(deadline) {
		if !isAlive(pid) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if isAlive(pid) {
		kill(pid)
	}
	return l.running.UpdateStatus(pid, store.StatusKilled)
}

// StopByName resolves name to a pid via RunningState.FindByName and stops it.
func (l *Launcher) StopByName(name string) (int, error) {
	rec, ok, err := l.running.FindByName(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	return rec.PID, l.Stop(rec.PID)
}

// Restart stops the record at pid, launches a fresh copy of its argv under
// the same name and timeout, and removes the old record (the new launch
// produces an entirely new record with a new pid).
func (l *Launcher) Restart(pid int) (store.RunningRecord, error) {
	rec, ok, err := l.running.Get(pid)
	if err != nil {
		return store.RunningRecord{}, err
	}
	if !ok {
		return store.RunningRecord{}, ErrNotFound
	}

	if rec.Status == store.StatusRunning {
		if err := l.Stop(pid); err != nil {
			return store.RunningRecord{}, fmt.Errorf("stopping old process: %w", err)
		}
	}

	var timeout *time.Duration
	if rec.TimeoutSecs != nil {
		d := time.Duration(*rec.TimeoutSecs) * time.Second
		timeout = &d
	}

	newRec, err := l.Run(rec.Argv, rec.DisplayName, timeout)
	if err != nil {
		return store.RunningRecord{}, err
	}

	if err := l.running.Remove(pid); err != nil {
		return store.RunningRecord{}, fmt.Errorf("removing old record: %w", err)
	}

	return newRec, nil
}

// Remove stops pid if it is still running, then deletes its record.
func (l *Launcher) Remove(pid int) error {
	rec, ok, err := l.running.Get(pid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if rec.Status == store.StatusRunning {
		if err := l.Stop(pid); err != nil {
			return err
		}
	}
	return l.running.Remove(pid)
}

func (l *Launcher) createLogFile(displayName string) (*os.File, string, error) {
	if err := os.MkdirAll(l.logDir, 0755); err != nil {
		return nil, "", err
	}
	safeName := sanitizeForFilename(displayName)
	fileName := fmt.Sprintf("%s_%d_%s.log", safeName, time.Now().Unix(), uuid.New().String()[:8])
	logPath := filepath.Join(l.logDir, fileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", err
	}
	return f, logPath, nil
}

func sanitizeForFilename(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_")
	return r.Replace(name)
}

func (l *Launcher) spawnWatchdog(pid int, timeoutSecs int64) error {
	cmd := exec.Command(l.executable, "internal-watchdog",
		"--pid", strconv.Itoa(pid),
		"--timeout-secs", strconv.FormatInt(timeoutSecs, 10),
	)
	cmd.Env = append(os.Environ(),
		"KSAI_PROC_LOG_JSON="+l.runningStatePathForEnv(),
	)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (l *Launcher) runningStatePathForEnv() string {
	// The watchdog is re-exec'd as a brand-new process and does not
	// inherit our in-memory RunningState handle, only the environment; it
	// must see the same store path we were configured with.
	return paths.RunningStatePath()
}

// ErrNotFound is returned by Stop/Restart/Remove when the requested pid or
// name has no record in RunningState.
var ErrNotFound = fmt.Errorf("process not found")
