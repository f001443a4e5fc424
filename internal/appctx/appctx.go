// Package appctx wires the core components (stores, launcher, reaper,
// scheduler supervisor) from the resolved storage paths into one bundle
// shared by the CLI root command and every subcommand handler.
package appctx

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/ksaiproc/ksaiproc/internal/config"
	"github.com/ksaiproc/ksaiproc/internal/launcher"
	"github.com/ksaiproc/ksaiproc/internal/paths"
	"github.com/ksaiproc/ksaiproc/internal/reaper"
	"github.com/ksaiproc/ksaiproc/internal/scheduler"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// App bundles every core component a command handler needs.
type App struct {
	Running    *store.RunningState
	Schedule   *store.ScheduleStore
	Launcher   *launcher.Launcher
	Reaper     *reaper.Reaper
	Supervisor *scheduler.Supervisor
	Logger     zerolog.Logger
	Executable string
}

// New resolves storage paths, ensures their directories exist, and wires
// every core component against them.
func New() (*App, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LevelOrDefault())
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	running := store.NewRunningState(paths.RunningStatePath())
	schedule := store.NewScheduleStore(paths.SchedulePath())

	executable, err := os.Executable()
	if err != nil {
		executable = "ksaiproc"
	}

	return &App{
		Running:    running,
		Schedule:   schedule,
		Launcher:   launcher.New(running, paths.LogDir(), executable, logger),
		Reaper:     reaper.New(running, logger),
		Supervisor: scheduler.NewSupervisor(running, executable, logger),
		Logger:     logger,
		Executable: executable,
	}, nil
}

// PreRun implements the spec's fixed control flow: ensure the scheduler
// daemon is alive, then reap dead records, before any command handler runs.
func (a *App) PreRun() error {
	if err := a.Supervisor.Ensure(); err != nil {
		return err
	}
	return a.Reaper.Reap()
}

// SchedulerLogger returns a logger writing to scheduler.log, for the
// internal-scheduler daemon's own heartbeat.
func SchedulerLogger() (zerolog.Logger, error) {
	f, err := os.OpenFile(paths.SchedulerLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return zerolog.New(f).With().Timestamp().Logger(), nil
}
