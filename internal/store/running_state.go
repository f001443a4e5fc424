package store

import (
	"fmt"
	"strconv"
)

// Status is the lifecycle state of a supervised child. Every value other
// than StatusRunning is terminal and, once set on a record, never reverts
// to StatusRunning.
type Status string

const (
	StatusRunning        Status = "running"
	StatusCompleted      Status = "completed"
	StatusKilled         Status = "killed"
	StatusKilledTimeout  Status = "killed (timeout)"
	StatusKilledExternal Status = "killed (external)"
)

// Terminal reports whether the status is a final one.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// RunningRecord is one entry in the running-process store, keyed by the
// decimal string form of PID.
type RunningRecord struct {
	PID         int      `json:"pid"`
	DisplayName string   `json:"display_name"`
	CmdStr      string   `json:"cmd_str"`
	Argv        []string `json:"argv"`
	Status      Status   `json:"status"`
	LogFile     string   `json:"log_file"`
	StartedAt   int64    `json:"started_at"`
	TimeoutSecs *int64   `json:"timeout_secs,omitempty"`
}

// SchedulerDaemonName is the literal display_name used for the scheduler
// daemon's own running-state record.
const SchedulerDaemonName = "ksai_scheduler_daemon"

// ScheduledChildPrefix is prepended to a schedule job's name to form the
// display_name of the child it spawns (e.g. "S:nightly-backup").
const ScheduledChildPrefix = "S:"

// RunningState is a typed view over the running-process store.
type RunningState struct {
	path string
}

// NewRunningState returns a RunningState backed by the JSON document at path.
func NewRunningState(path string) *RunningState {
	return &RunningState{path: path}
}

// Insert adds or overwrites the record keyed by its own PID.
func (r *RunningState) Insert(rec RunningRecord) error {
	key := strconv.Itoa(rec.PID)
	_, err := WithStore(r.path, func(m map[string]RunningRecord) (struct{}, error) {
		m[key] = rec
		return struct{}{}, nil
	})
	return err
}

// UpdateStatus transitions the record for pid to newStatus, unless the
// record is already in a terminal state and newStatus is StatusRunning (a
// terminal record never reverts to running).
func (r *RunningState) UpdateStatus(pid int, newStatus Status) error {
	key := strconv.Itoa(pid)
	_, err := WithStore(r.path, func(m map[string]RunningRecord) (struct{}, error) {
		rec, ok := m[key]
		if !ok {
			return struct{}{}, nil
		}
		if rec.Status.Terminal() && newStatus == StatusRunning {
			return struct{}{}, nil
		}
		rec.Status = newStatus
		m[key] = rec
		return struct{}{}, nil
	})
	return err
}

// CompleteIfRunning transitions the record for pid to StatusCompleted, but
// only if it is still StatusRunning. Callers that already set a more
// specific terminal status (killed, killed (timeout), killed (external))
// race this and win unconditionally, since only a still-running record is
// ever touched here.
func (r *RunningState) CompleteIfRunning(pid int) error {
	key := strconv.Itoa(pid)
	_, err := WithStore(r.path, func(m map[string]RunningRecord) (struct{}, error) {
		rec, ok := m[key]
		if !ok || rec.Status != StatusRunning {
			return struct{}{}, nil
		}
		rec.Status = StatusCompleted
		m[key] = rec
		return struct{}{}, nil
	})
	return err
}

// Remove deletes the record for pid.
func (r *RunningState) Remove(pid int) error {
	key := strconv.Itoa(pid)
	_, err := WithStore(r.path, func(m map[string]RunningRecord) (struct{}, error) {
		delete(m, key)
		return struct{}{}, nil
	})
	return err
}

// Get returns the record for pid, if present.
func (r *RunningState) Get(pid int) (RunningRecord, bool, error) {
	key := strconv.Itoa(pid)
	type result struct {
		rec RunningRecord
		ok  bool
	}
	res, err := WithStore(r.path, func(m map[string]RunningRecord) (result, error) {
		v, ok := m[key]
		return result{rec: v, ok: ok}, nil
	})
	if err != nil {
		return RunningRecord{}, false, err
	}
	return res.rec, res.ok, nil
}

// FindByName returns the first record (in map-iteration order, which Go
// does not guarantee - see spec §9 open question on display_name
// uniqueness) whose DisplayName matches name exactly.
func (r *RunningState) FindByName(name string) (RunningRecord, bool, error) {
	found, err := WithStore(r.path, func(m map[string]RunningRecord) (*RunningRecord, error) {
		for _, rec := range m {
			if rec.DisplayName == name {
				cp := rec
				return &cp, nil
			}
		}
		return nil, nil
	})
	if err != nil {
		return RunningRecord{}, false, err
	}
	if found == nil {
		return RunningRecord{}, false, nil
	}
	return *found, true, nil
}

// All returns a deep-copy snapshot of every record, keyed by pid string.
func (r *RunningState) All() (map[string]RunningRecord, error) {
	snapshot, err := WithStore(r.path, func(m map[string]RunningRecord) (map[string]RunningRecord, error) {
		cp := make(map[string]RunningRecord, len(m))
		for k, v := range m {
			cp[k] = v
		}
		return cp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading running state: %w", err)
	}
	return snapshot, nil
}

// Mutate exposes the raw map to fn under the store's lock, for callers (such
// as the reaper) that need to apply several changes atomically in one lock
// acquisition.
func (r *RunningState) Mutate(fn func(map[string]RunningRecord) error) error {
	_, err := WithStore(r.path, func(m map[string]RunningRecord) (struct{}, error) {
		return struct{}{}, fn(m)
	})
	return err
}
