package launcher

import (
	"time"

	"github.com/ksaiproc/ksaiproc/internal/store"
)

// RunWatchdog is the body of the hidden `internal-watchdog` subcommand. It
// sleeps timeoutSecs without holding any lock, then - if the child is still
// alive - sends SIGTERM, waits stopGrace, escalates to SIGKILL, and finally
// acquires the RunningState lock once to record StatusKilledTimeout.
//
// If the child already exited (or was independently reaped/removed) by the
// time the sleep elapses, the watchdog does nothing further: a terminal
// status is never overwritten, per spec.
func RunWatchdog(running *store.RunningState, pid int, timeoutSecs int64) error {
	time.Sleep(time.Duration(timeoutSecs) * time.Second)

	if !isAlive(pid) {
		return nil
	}

	terminate(pid)
	deadline := time.Now().Add(stopGrace)
	for time.Now().Before(deadline) && isAlive(pid) {
		time.Sleep(100 * time.Millisecond)
	}
	if isAlive(pid) {
		kill(pid)
	}

	return running.UpdateStatus(pid, store.StatusKilledTimeout)
}
