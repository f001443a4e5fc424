package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/launcher"
)

// NewStopCommand builds `stop --name N` | `stop <pid>`.
func NewStopCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "stop [pid]",
		Short: "Stop a supervised process",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appctx.New()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if name != "" {
				pid, err := a.Launcher.StopByName(name)
				if errors.Is(err, launcher.ErrNotFound) {
					fmt.Fprintf(out, "Process %s not found\n", name)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d stopped\n", pid)
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("stop requires either --name N or a pid argument")
			}
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid value for pid: %q", args[0])
			}

			if err := a.Launcher.Stop(pid); err != nil {
				if errors.Is(err, launcher.ErrNotFound) {
					fmt.Fprintf(out, "Process %d not found\n", pid)
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "%d stopped\n", pid)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "stop the process with this display name")
	return cmd
}
