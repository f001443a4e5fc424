package commands

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
)

// NewListCommand builds `list`.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supervised processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appctx.New()
			if err != nil {
				return err
			}

			snapshot, err := a.Running.All()
			if err != nil {
				return err
			}

			pids := make([]int, 0, len(snapshot))
			for _, rec := range snapshot {
				pids = append(pids, rec.PID)
			}
			sort.Ints(pids)

			rows := make([][]string, 0, len(pids))
			for _, pid := range pids {
				rec := snapshot[strconv.Itoa(pid)]
				rows = append(rows, []string{
					strconv.Itoa(rec.PID),
					rec.DisplayName,
					rec.CmdStr,
					string(rec.Status),
				})
			}

			renderTable(cmd.OutOrStdout(), []string{"PID", "NAME", "CMD", "STATUS"}, rows)
			return nil
		},
	}
}
