package scheduler

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/ksaiproc/ksaiproc/internal/paths"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// Supervisor keeps exactly one scheduler daemon alive, self-healing by
// re-launching it whenever the recorded daemon has died without anyone
// stopping it on purpose. It is invoked from the CLI's pre-run hook, so
// every ordinary command first nudges the daemon back to life if needed.
type Supervisor struct {
	running    *store.RunningState
	executable string
	logger     zerolog.Logger
}

// NewSupervisor builds a Supervisor. executable is the current binary's
// path, re-exec'd with the hidden `internal-scheduler` subcommand.
func NewSupervisor(running *store.RunningState, executable string, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		running:    running,
		executable: executable,
		logger:     logger.With().Str("component", "scheduler-supervisor").Logger(),
	}
}

// Ensure verifies the scheduler daemon's recorded record is alive, marking
// it killed (external) and spawning a fresh one if not. It is safe to call
// on every CLI invocation: a live daemon is left untouched.
func (s *Supervisor) Ensure() error {
	snapshot, err := s.running.All()
	if err != nil {
		return fmt.Errorf("checking scheduler daemon record: %w", err)
	}

	for _, rec := range snapshot {
		if rec.DisplayName != store.SchedulerDaemonName || rec.Status != store.StatusRunning {
			continue
		}
		if isAliveExternal(rec.PID) {
			return nil
		}
		if err := s.running.UpdateStatus(rec.PID, store.StatusKilledExternal); err != nil {
			return fmt.Errorf("marking dead scheduler daemon: %w", err)
		}
		s.logger.Warn().Int("pid", rec.PID).Msg("scheduler daemon found dead, reviving")
	}

	return s.spawn()
}

func (s *Supervisor) spawn() error {
	cmd := exec.Command(s.executable, "internal-scheduler")
	cmd.Env = append(os.Environ(),
		"KSAI_PROC_LOG_JSON="+paths.RunningStatePath(),
		"KSAI_PROC_SCHEDULE_JSON="+paths.SchedulePath(),
		"KSAI_PROC_LOG_DIR="+paths.LogDir(),
	)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detachSupervised(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning scheduler daemon: %w", err)
	}
	go func() { _ = cmd.Wait() }()

	rec := store.RunningRecord{
		PID:         cmd.Process.Pid,
		DisplayName: store.SchedulerDaemonName,
		CmdStr:      s.executable + " internal-scheduler",
		Argv:        []string{s.executable, "internal-scheduler"},
		Status:      store.StatusRunning,
		LogFile:     paths.SchedulerLogPath(),
		StartedAt:   time.Now().Unix(),
	}
	if err := s.running.Insert(rec); err != nil {
		return fmt.Errorf("recording scheduler daemon: %w", err)
	}

	s.logger.Info().Int("pid", rec.PID).Msg("started scheduler daemon")
	return nil
}
