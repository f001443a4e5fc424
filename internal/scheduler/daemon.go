// Package scheduler implements the background daemon that polls the
// schedule store and launches due jobs, plus the supervisor that keeps
// exactly one daemon instance alive.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ksaiproc/ksaiproc/internal/launcher"
	"github.com/ksaiproc/ksaiproc/internal/store"
)

// defaultPollInterval is how often the daemon wakes to check for due jobs,
// absent an ambient config override (internal/config).
const defaultPollInterval = 1 * time.Second

// Daemon is the body of the hidden `internal-scheduler` subcommand: a loop
// that wakes every poll interval, reads the running-state snapshot then the
// schedule store snapshot (in that lock order, per spec), launches any job
// that is due and not already running, and records the new last_run.
type Daemon struct {
	schedule     *store.ScheduleStore
	running      *store.RunningState
	launcher     *launcher.Launcher
	logger       zerolog.Logger
	pollInterval time.Duration
}

// NewDaemon builds a Daemon. logger should already be configured to write
// to the scheduler's own heartbeat log file, distinct from per-job logs.
func NewDaemon(schedule *store.ScheduleStore, running *store.RunningState, l *launcher.Launcher, logger zerolog.Logger) *Daemon {
	return &Daemon{
		schedule:     schedule,
		running:      running,
		launcher:     l,
		logger:       logger.With().Str("component", "scheduler").Logger(),
		pollInterval: defaultPollInterval,
	}
}

// WithPollInterval overrides the poll period, e.g. from the ambient config
// file's scheduler.poll_interval_ms.
func (d *Daemon) WithPollInterval(interval time.Duration) *Daemon {
	if interval > 0 {
		d.pollInterval = interval
	}
	return d
}

// Run polls until ctx is cancelled. It is the entire body of the
// `internal-scheduler` hidden subcommand process.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info().Msg("scheduler daemon started")
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("scheduler daemon stopping")
			return nil
		case <-ticker.C:
			d.tick()
		}
	}
}

// tick reads the running-state snapshot, then the schedule store snapshot
// (RunningState-before-ScheduleStore, per spec's lock ordering convention),
// launches every due-and-not-already-running job it finds, and advances
// last_run for each.
func (d *Daemon) tick() {
	now := time.Now().Unix()

	runningSnapshot, err := d.running.All()
	if err != nil {
		d.logger.Error().Err(err).Msg("reading running state")
		return
	}

	jobs, err := d.schedule.All()
	if err != nil {
		d.logger.Error().Err(err).Msg("reading schedule store")
		return
	}

	started := 0
	for _, job := range jobs {
		if !job.Enabled {
			continue
		}
		if !isDue(job, now) {
			continue
		}
		if isChildRunning(runningSnapshot, job.Name) {
			continue
		}
		d.launchDue(job, now)
		started++
	}
	d.logger.Info().Int64("now", now).Int("started", started).Msg("tick")
}

// isChildRunning reports whether a job's prior spawn is still alive in the
// running-state snapshot, by its "S:<name>" display name.
func isChildRunning(snapshot map[string]store.RunningRecord, jobName string) bool {
	childName := store.ScheduledChildPrefix + jobName
	for _, rec := range snapshot {
		if rec.DisplayName == childName && rec.Status == store.StatusRunning {
			return true
		}
	}
	return false
}

// isDue implements "now >= start_at && now >= last_run + every_secs": a job
// is due once it has reached its start time and either never ran, or enough
// time has elapsed since its last run.
func isDue(job store.ScheduleRecord, now int64) bool {
	if now < job.StartAt {
		return false
	}
	if job.LastRun == 0 {
		return true
	}
	return now >= job.LastRun+job.EverySecs
}

func (d *Daemon) launchDue(job store.ScheduleRecord, now int64) {
	childName := store.ScheduledChildPrefix + job.Name
	if _, err := d.launcher.Run(job.Argv, childName, nil); err != nil {
		d.logger.Error().Err(err).Str("job", job.Name).Msg("failed to launch scheduled job")
		return
	}
	if err := d.schedule.SetLastRun(job.Name, now); err != nil {
		d.logger.Error().Err(err).Str("job", job.Name).Msg("failed to record last_run")
		return
	}
	d.logger.Info().Str("job", job.Name).Strs("argv", job.Argv).Msg("launched scheduled job")
}
