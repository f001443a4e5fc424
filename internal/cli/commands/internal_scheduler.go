package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/config"
	"github.com/ksaiproc/ksaiproc/internal/launcher"
	"github.com/ksaiproc/ksaiproc/internal/paths"
	"github.com/ksaiproc/ksaiproc/internal/scheduler"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// NewInternalSchedulerCommand builds the hidden `internal-scheduler`
// subcommand: the SchedulerDaemon entry point. Not for user invocation; it
// is re-exec'd by Supervisor.Ensure.
func NewInternalSchedulerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "internal-scheduler",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInternalScheduler()
		},
	}
	cmd.SetHelpFunc(func(*cobra.Command, []string) {})
	return cmd
}

func runInternalScheduler() error {
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	logger, err := appctx.SchedulerLogger()
	if err != nil {
		return err
	}

	running := store.NewRunningState(paths.RunningStatePath())
	schedule := store.NewScheduleStore(paths.SchedulePath())

	executable, err := os.Executable()
	if err != nil {
		executable = "ksaiproc"
	}
	l := launcher.New(running, paths.LogDir(), executable, logger)

	if err := running.Insert(store.RunningRecord{
		PID:         os.Getpid(),
		DisplayName: store.SchedulerDaemonName,
		CmdStr:      executable + " internal-scheduler",
		Argv:        []string{executable, "internal-scheduler"},
		Status:      store.StatusRunning,
		LogFile:     paths.SchedulerLogPath(),
		StartedAt:   time.Now().Unix(),
	}); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	d := scheduler.NewDaemon(schedule, running, l, logger).WithPollInterval(cfg.PollInterval())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}
