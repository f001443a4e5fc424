package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithStoreCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "running.json")

	rs := NewRunningState(path)
	snapshot, err := rs.All()
	require.NoError(t, err)
	assert.Empty(t, snapshot)
	assert.FileExists(t, path)
}

func TestWithStoreTreatsMalformedFileAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "running.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	rs := NewRunningState(path)
	snapshot, err := rs.All()
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestRunningStateInsertUpdateRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "running.json")
	rs := NewRunningState(path)

	rec := RunningRecord{PID: 1234, DisplayName: "job", Status: StatusRunning}
	require.NoError(t, rs.Insert(rec))

	got, ok, err := rs.Get(1234)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, got.Status)

	require.NoError(t, rs.UpdateStatus(1234, StatusKilledExternal))
	got, _, _ = rs.Get(1234)
	assert.Equal(t, StatusKilledExternal, got.Status)

	// Terminal never reverts to running.
	require.NoError(t, rs.UpdateStatus(1234, StatusRunning))
	got, _, _ = rs.Get(1234)
	assert.Equal(t, StatusKilledExternal, got.Status)

	require.NoError(t, rs.Remove(1234))
	_, ok, _ = rs.Get(1234)
	assert.False(t, ok)
}

func TestCompleteIfRunningOnlyTransitionsFromRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "running.json")
	rs := NewRunningState(path)

	require.NoError(t, rs.Insert(RunningRecord{PID: 1, DisplayName: "clean-exit", Status: StatusRunning}))
	require.NoError(t, rs.CompleteIfRunning(1))
	got, _, _ := rs.Get(1)
	assert.Equal(t, StatusCompleted, got.Status)

	require.NoError(t, rs.Insert(RunningRecord{PID: 2, DisplayName: "already-killed", Status: StatusKilled}))
	require.NoError(t, rs.CompleteIfRunning(2))
	got, _, _ = rs.Get(2)
	assert.Equal(t, StatusKilled, got.Status, "a record that is already terminal must not be overwritten to completed")

	require.NoError(t, rs.CompleteIfRunning(999))
}

func TestFindByNameFirstMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "running.json")
	rs := NewRunningState(path)
	require.NoError(t, rs.Insert(RunningRecord{PID: 1, DisplayName: "dup", Status: StatusRunning}))
	require.NoError(t, rs.Insert(RunningRecord{PID: 2, DisplayName: "dup", Status: StatusRunning}))

	rec, ok, err := rs.FindByName("dup")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dup", rec.DisplayName)
}

func TestScheduleStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	ss := NewScheduleStore(path)

	require.NoError(t, ss.Upsert(ScheduleRecord{Name: "job", EverySecs: 5, Enabled: true}))

	rec, ok, err := ss.Get("job")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Enabled)

	changed, err := ss.SetEnabled("job", false)
	require.NoError(t, err)
	assert.True(t, changed)

	rec, _, _ = ss.Get("job")
	assert.False(t, rec.Enabled)
	assert.Zero(t, rec.LastRun, "disabling must not reset history")

	require.NoError(t, ss.SetLastRun("job", 1000))
	rec, _, _ = ss.Get("job")
	assert.EqualValues(t, 1000, rec.LastRun)

	removed, err := ss.Remove("job")
	require.NoError(t, err)
	assert.True(t, removed)
}

// TestConcurrentWritesStayValidJSON exercises the lock-contention property
// from spec.md §8 property 1: after concurrent writers, the file must still
// parse as valid JSON with every write accounted for.
func TestConcurrentWritesStayValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "running.json")
	rs := NewRunningState(path)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = rs.Insert(RunningRecord{PID: 10000 + i, DisplayName: "w", Status: StatusRunning})
		}(i)
	}
	wg.Wait()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]RunningRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, n)
}
