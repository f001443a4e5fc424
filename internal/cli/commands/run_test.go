package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	test "github.com/ksaiproc/ksaiproc/test/helpers"
)

// TestRunLaunchesAndReportsPID covers scenario S1: `run --name a -- /bin/sleep 10`
// followed by `list` shows `a`, `sleep 10`, status `running`.
func TestRunLaunchesAndReportsPID(t *testing.T) {
	env := test.NewTestEnv(t)

	runCmd := NewRunCommand()
	var out bytes.Buffer
	runCmd.SetOut(&out)
	runCmd.SetArgs([]string{"--name", "a", "--", "/bin/sleep", "10"})
	require.NoError(t, runCmd.Execute())
	assert.Contains(t, out.String(), "Process launched successfully")
	assert.Contains(t, out.String(), "pid: ")

	listCmd := NewListCommand()
	var listOut bytes.Buffer
	listCmd.SetOut(&listOut)
	require.NoError(t, listCmd.Execute())
	assert.Contains(t, listOut.String(), "a")
	assert.Contains(t, listOut.String(), "sleep 10")
	assert.Contains(t, listOut.String(), "running")

	_ = env // keep the isolated env alive for the duration of the test
}

func TestRunInvalidTimeout(t *testing.T) {
	test.NewTestEnv(t)

	cmd := NewRunCommand()
	cmd.SetArgs([]string{"--timeout", "not-a-duration", "--", "/bin/true"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value")
}
