package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/cli/commands"
	"github.com/ksaiproc/ksaiproc/internal/version"
)

// NewRootCommand builds a fresh ksaiproc command tree. Execute uses a single
// instance; tests build their own so flag state never leaks between cases.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ksaiproc",
		Short: "ksaiproc - local process supervisor and cron-style scheduler",
		Long: `ksaiproc launches and supervises arbitrary child programs, tracks
their lifecycle across independent CLI invocations, and runs a background
daemon that revives failed scheduled jobs on a fixed cadence.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipSelfCheck(cmd) {
				return nil
			}
			a, err := appctx.New()
			if err != nil {
				return err
			}
			return a.PreRun()
		},
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewStopCommand())
	rootCmd.AddCommand(commands.NewRestartCommand())
	rootCmd.AddCommand(commands.NewRemoveCommand())
	rootCmd.AddCommand(commands.NewLogsCommand())
	rootCmd.AddCommand(commands.NewScheduleCommand())
	rootCmd.AddCommand(commands.NewInternalSchedulerCommand())
	rootCmd.AddCommand(commands.NewInternalWatchdogCommand())

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "accepted but has no effect; the log level comes from the config file's log.level")

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// shouldSkipSelfCheck exempts the hidden daemon/watchdog entry points (which
// must not recursively spawn another supervisor) and cobra's own
// help/completion/version machinery from the ensure-and-reap pre-run.
func shouldSkipSelfCheck(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "ksaiproc", "help", "completion", "internal-scheduler", "internal-watchdog":
		return true
	}
	if cmd.Flags().Changed("version") {
		return true
	}
	return false
}
