package commands

import (
	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/launcher"
	"github.com/ksaiproc/ksaiproc/internal/paths"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// NewInternalWatchdogCommand builds the hidden `internal-watchdog`
// subcommand: sleeps out a supervised child's wall-clock timeout, then
// escalates SIGTERM/SIGKILL and records StatusKilledTimeout. Re-exec'd by
// Launcher.Run when a --timeout was given; not for user invocation.
func NewInternalWatchdogCommand() *cobra.Command {
	var pid int
	var timeoutSecs int64

	cmd := &cobra.Command{
		Use:    "internal-watchdog",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			running := store.NewRunningState(paths.RunningStatePath())
			return launcher.RunWatchdog(running, pid, timeoutSecs)
		},
	}
	cmd.SetHelpFunc(func(*cobra.Command, []string) {})

	cmd.Flags().IntVar(&pid, "pid", 0, "pid of the supervised child to watch")
	cmd.Flags().Int64Var(&timeoutSecs, "timeout-secs", 0, "seconds to sleep before escalating")
	_ = cmd.MarkFlagRequired("pid")
	_ = cmd.MarkFlagRequired("timeout-secs")

	return cmd
}
