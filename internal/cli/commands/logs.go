package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
)

// NewLogsCommand builds `logs <pid>`, tailing the record's log_file.
func NewLogsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logs <pid>",
		Short: "Tail a supervised process's combined stdout/stderr log",
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

			rec, ok, err := a.Running.Get(pid)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Process %d not found\n", pid)
				return nil
			}

			if _, err := os.Stat(rec.LogFile); err != nil {
				return fmt.Errorf("log file not found at %s", rec.LogFile)
			}

			tailPath, err := exec.LookPath("tail")
			if err != nil {
				return fmt.Errorf("'tail' command not found in PATH")
			}

			c := exec.Command(tailPath, "-f", rec.LogFile)
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		},
	}
}
