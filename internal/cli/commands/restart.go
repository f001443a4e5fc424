package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/launcher"
)

// NewRestartCommand builds `restart <pid>`.
func NewRestartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <pid>",
		Short: "Stop a process and relaunch it with the same argv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid value for pid: %q", args[0])
			}

			a, err := appctx.New()
			if err != nil {
				return err
			}

			newRec, err := a.Launcher.Restart(pid)
			if errors.Is(err, launcher.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Process %d not found\n", pid)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d restarted with new PID %d\n", pid, newRec.PID)
			return nil
		},
	}
}
