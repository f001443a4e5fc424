package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	test "github.com/ksaiproc/ksaiproc/test/helpers"
)

func TestScheduleAddRequiresEveryOrCron(t *testing.T) {
	test.NewTestEnv(t)

	cmd := newScheduleAddCommand()
	cmd.SetArgs([]string{"--name", "j", "--", "/bin/true"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--every or --cron")
}

func TestScheduleAddRejectsBothEveryAndCron(t *testing.T) {
	test.NewTestEnv(t)

	cmd := newScheduleAddCommand()
	cmd.SetArgs([]string{"--name", "j", "--every", "5s", "--cron", "* * * * *", "--", "/bin/true"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestScheduleAddInvalidStartAt(t *testing.T) {
	test.NewTestEnv(t)

	cmd := newScheduleAddCommand()
	cmd.SetArgs([]string{"--name", "j", "--every", "5s", "--start-at", "not-a-date", "--", "/bin/true"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Invalid date format")
}

// TestScheduleAddThenList covers scenario S4's setup half: `schedule add
// --name j --every 5s --start-at now -- /bin/sleep 100` creates a record
// that `schedule list` reports as enabled.
func TestScheduleAddThenList(t *testing.T) {
	test.NewTestEnv(t)

	addCmd := newScheduleAddCommand()
	addCmd.SetOut(&bytes.Buffer{})
	addCmd.SetArgs([]string{"--name", "j", "--every", "5s", "--start-at", "now", "--", "/bin/sleep", "100"})
	require.NoError(t, addCmd.Execute())

	listCmd := newScheduleListCommand()
	var out bytes.Buffer
	listCmd.SetOut(&out)
	require.NoError(t, listCmd.Execute())
	assert.Contains(t, out.String(), "j")
	assert.Contains(t, out.String(), "true")
}

func TestScheduleStopDisablesWithoutLosingHistory(t *testing.T) {
	test.NewTestEnv(t)

	addCmd := newScheduleAddCommand()
	addCmd.SetOut(&bytes.Buffer{})
	addCmd.SetArgs([]string{"--name", "j", "--every", "5s", "--", "/bin/true"})
	require.NoError(t, addCmd.Execute())

	stopCmd := newScheduleStopCommand()
	var out bytes.Buffer
	stopCmd.SetOut(&out)
	stopCmd.SetArgs([]string{"j"})
	require.NoError(t, stopCmd.Execute())
	assert.Contains(t, out.String(), "stopped")

	listCmd := newScheduleListCommand()
	var listOut bytes.Buffer
	listCmd.SetOut(&listOut)
	require.NoError(t, listCmd.Execute())
	assert.Contains(t, listOut.String(), "false")
}
