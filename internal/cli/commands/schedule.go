package commands

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksaiproc/ksaiproc/internal/appctx"
	"github.com/ksaiproc/ksaiproc/internal/scheduler"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

const startAtLayout = "2006-01-02 15:04:05"

// NewScheduleCommand builds the `schedule` command group: add/list/stop/remove.
func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled jobs run by the scheduler daemon",
	}

	cmd.AddCommand(newScheduleAddCommand())
	cmd.AddCommand(newScheduleListCommand())
	cmd.AddCommand(newScheduleStopCommand())
	cmd.AddCommand(newScheduleRemoveCommand())

	return cmd
}

func newScheduleAddCommand() *cobra.Command {
	var name string
	var every string
	var cronExpr string
	var startAt string

	cmd := &cobra.Command{
		Use:   "add -- <argv...>",
		Short: "Create or replace a scheduled job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (every == "") == (cronExpr == "") {
				return fmt.Errorf("exactly one of --every or --cron is required")
			}

			var everySecs int64
			var resolvedStart int64
			var hasResolvedStart bool
			cronDisplay := ""

			if every != "" {
				d, err := time.ParseDuration(every)
				if err != nil {
					return fmt.Errorf("invalid value for --every: %q", every)
				}
				if d < time.Second {
					return fmt.Errorf("invalid value for --every: %q", every)
				}
				everySecs = int64(d.Seconds())
			} else {
				secs, start, err := scheduler.ResolveCronInterval(cronExpr)
				if err != nil {
					return fmt.Errorf("invalid cron expression: %w", err)
				}
				everySecs = secs
				resolvedStart = start
				hasResolvedStart = true
				cronDisplay = cronExpr
			}

			startEpoch := time.Now().Unix()
			switch {
			case startAt == "" || startAt == "now":
				if hasResolvedStart {
					startEpoch = resolvedStart
				}
			default:
				parsed, err := time.ParseInLocation(startAtLayout, startAt, time.Local)
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Error: Invalid date format")
					return nil
				}
				startEpoch = parsed.Unix()
			}

			a, err := appctx.New()
			if err != nil {
				return err
			}

			rec := store.ScheduleRecord{
				Name:      name,
				Argv:      args,
				EverySecs: everySecs,
				StartAt:   startEpoch,
				Enabled:   true,
				CronExpr:  cronDisplay,
			}
			if existing, ok, err := a.Schedule.Get(name); err == nil && ok {
				rec.LastRun = existing.LastRun
			}

			if err := a.Schedule.Upsert(rec); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schedule %q added\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "unique job name")
	cmd.Flags().StringVar(&every, "every", "", "frequency (e.g. 5s, 1m, 1h)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "standard 5-field cron expression")
	cmd.Flags().StringVar(&startAt, "start-at", "now", `"now" or "YYYY-MM-DD HH:MM:SS" in local time`)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newScheduleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appctx.New()
			if err != nil {
				return err
			}

			snapshot, err := a.Schedule.All()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(snapshot))
			for name := range snapshot {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rec := snapshot[name]
				nextStart := time.Unix(rec.StartAt, 0).Local().Format(startAtLayout)
				frequency := fmt.Sprintf("%ds", rec.EverySecs)
				if rec.CronExpr != "" {
					frequency += " (cron: " + rec.CronExpr + ")"
				}
				rows = append(rows, []string{
					rec.Name,
					frequency,
					nextStart,
					strconv.FormatBool(rec.Enabled),
				})
			}

			renderTable(cmd.OutOrStdout(), []string{"NAME", "FREQUENCY", "NEXT START", "ENABLED"}, rows)
			return nil
		},
	}
}

func newScheduleStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <name>",
		Short: "Disable a scheduled job without losing its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appctx.New()
			if err != nil {
				return err
			}
			found, err := a.Schedule.SetEnabled(args[0], false)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "schedule %q not found\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schedule %q stopped\n", args[0])
			return nil
		},
	}
}

func newScheduleRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a scheduled job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appctx.New()
			if err != nil {
				return err
			}
			found, err := a.Schedule.Remove(args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "schedule %q not found\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schedule %q removed\n", args[0])
			return nil
		},
	}
}
