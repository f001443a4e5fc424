package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	test "github.com/ksaiproc/ksaiproc/test/helpers"
)

func TestStopUnknownPIDPrintsNotFound(t *testing.T) {
	test.NewTestEnv(t)

	cmd := NewStopCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"999999"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "not found")
}

func TestStopRunningProcessReportsStopped(t *testing.T) {
	test.NewTestEnv(t)

	runCmd := NewRunCommand()
	var runOut bytes.Buffer
	runCmd.SetOut(&runOut)
	runCmd.SetArgs([]string{"--name", "tostop", "--", "/bin/sleep", "30"})
	require.NoError(t, runCmd.Execute())

	listCmd := NewListCommand()
	var listOut bytes.Buffer
	listCmd.SetOut(&listOut)
	require.NoError(t, listCmd.Execute())

	stopCmd := NewStopCommand()
	var stopOut bytes.Buffer
	stopCmd.SetOut(&stopOut)
	stopCmd.SetArgs([]string{"--name", "tostop"})
	require.NoError(t, stopCmd.Execute())
	assert.Contains(t, stopOut.String(), "stopped")
}
