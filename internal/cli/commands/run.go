package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
)

// NewRunCommand builds `run [--name N] [--timeout D] [--no-tui] -- <argv…>`.
func NewRunCommand() *cobra.Command {
	var name string
	var timeoutStr string
	// --no-tui is accepted for compatibility with the out-of-scope
	// interactive dashboard; the core has no TUI, so it is a no-op here.
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "run -- <argv...>",
		Short: "Launch a supervised child process",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var timeout *time.Duration
			if timeoutStr != "" {
				d, err := time.ParseDuration(timeoutStr)
				if err != nil {
					return fmt.Errorf("invalid value for --timeout: %q", timeoutStr)
				}
				timeout = &d
			}

			a, err := appctx.New()
			if err != nil {
				return err
			}

			rec, err := a.Launcher.Run(args, name, timeout)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Process launched successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "pid: %d\n", rec.PID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for the process")
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "wall-clock timeout (e.g. 2s, 1m, 1h)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", true, "disable the interactive dashboard (always true; no TUI is implemented)")

	return cmd
}
