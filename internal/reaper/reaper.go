// Package reaper reconciles recorded RunningState status with OS reality.
// It runs at the top of every CLI invocation, after the scheduler
// supervisor has had a chance to ensure the daemon is alive.
package reaper

import (
	"github.com/rs/zerolog"

	"github.com/ksaiproc/ksaiproc/internal/store"
)

// Reaper checks every record marked running against actual OS liveness and
// transitions dead ones to StatusKilledExternal. It never removes records;
// terminal records persist until an explicit `remove`.
type Reaper struct {
	running *store.RunningState
	logger  zerolog.Logger
}

// New creates a Reaper over the given running-state store.
func New(running *store.RunningState, logger zerolog.Logger) *Reaper {
	return &Reaper{running: running, logger: logger.With().Str("component", "reaper").Logger()}
}

// Reap performs one reconciliation pass under a single RunningState lock
// acquisition.
func (r *Reaper) Reap() error {
	reaped := 0
	err := r.running.Mutate(func(m map[string]store.RunningRecord) error {
		for key, rec := range m {
			if rec.Status != store.StatusRunning {
				continue
			}
			if isAlive(rec.PID) {
				continue
			}
			// Safety net: another concurrent command may have already set a
			// more specific terminal status, but the lock we're holding
			// means that can't actually be observed mid-mutation here.
			rec.Status = store.StatusKilledExternal
			m[key] = rec
			reaped++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if reaped > 0 {
		r.logger.Info().Int("count", reaped).Msg("reaped dead processes")
	}
	return nil
}
