package store

import "fmt"

// ScheduleRecord is one entry in the schedule store, keyed by its unique
// Name.
type ScheduleRecord struct {
	Name      string   `json:"name"`
	Argv      []string `json:"argv"`
	EverySecs int64    `json:"every_secs"`
	StartAt   int64    `json:"start_at"`
	Enabled   bool     `json:"enabled"`
	LastRun   int64    `json:"last_run"`

	// CronExpr is an optional display-only hint: when a job was created via
	// `schedule add --cron`, EverySecs is derived from this expression at
	// add-time (see SPEC_FULL.md §4) but remains the value the daemon
	// actually schedules against.
	CronExpr string `json:"cron_expr,omitempty"`
}

// ScheduleStore is a typed view over the schedule store.
type ScheduleStore struct {
	path string
}

// NewScheduleStore returns a ScheduleStore backed by the JSON document at path.
func NewScheduleStore(path string) *ScheduleStore {
	return &ScheduleStore{path: path}
}

// Upsert creates or replaces the record keyed by rec.Name.
func (s *ScheduleStore) Upsert(rec ScheduleRecord) error {
	_, err := WithStore(s.path, func(m map[string]ScheduleRecord) (struct{}, error) {
		m[rec.Name] = rec
		return struct{}{}, nil
	})
	return err
}

// SetEnabled flips the enabled flag for name, preserving history
// (last_run is untouched).
func (s *ScheduleStore) SetEnabled(name string, enabled bool) (bool, error) {
	return WithStore(s.path, func(m map[string]ScheduleRecord) (bool, error) {
		rec, ok := m[name]
		if !ok {
			return false, nil
		}
		rec.Enabled = enabled
		m[name] = rec
		return true, nil
	})
}

// SetLastRun updates last_run for name. Used by the scheduler daemon after
// spawning a due job.
func (s *ScheduleStore) SetLastRun(name string, at int64) error {
	_, err := WithStore(s.path, func(m map[string]ScheduleRecord) (struct{}, error) {
		rec, ok := m[name]
		if !ok {
			return struct{}{}, nil
		}
		rec.LastRun = at
		m[name] = rec
		return struct{}{}, nil
	})
	return err
}

// Remove deletes the record for name.
func (s *ScheduleStore) Remove(name string) (bool, error) {
	return WithStore(s.path, func(m map[string]ScheduleRecord) (bool, error) {
		_, ok := m[name]
		delete(m, name)
		return ok, nil
	})
}

// Get returns the record for name, if present.
func (s *ScheduleStore) Get(name string) (ScheduleRecord, bool, error) {
	type result struct {
		rec ScheduleRecord
		ok  bool
	}
	res, err := WithStore(s.path, func(m map[string]ScheduleRecord) (result, error) {
		v, ok := m[name]
		return result{rec: v, ok: ok}, nil
	})
	if err != nil {
		return ScheduleRecord{}, false, err
	}
	return res.rec, res.ok, nil
}

// All returns a deep-copy snapshot of every record, keyed by job name.
func (s *ScheduleStore) All() (map[string]ScheduleRecord, error) {
	snapshot, err := WithStore(s.path, func(m map[string]ScheduleRecord) (map[string]ScheduleRecord, error) {
		cp := make(map[string]ScheduleRecord, len(m))
		for k, v := range m {
			cp[k] = v
		}
		return cp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading schedule store: %w", err)
	}
	return snapshot, nil
}
