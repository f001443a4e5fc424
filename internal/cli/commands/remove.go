package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/launcher"
)

// NewRemoveCommand builds `remove <pid>`.
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pid>",
		Short: "Stop (if running) and delete a process record",
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

			if err := a.Launcher.Remove(pid); err != nil {
				if errors.Is(err, launcher.ErrNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "Process %d not found\n", pid)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d removed\n", pid)
			return nil
		},
	}
}
