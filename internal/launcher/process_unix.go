//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// detach configures cmd so the spawned child becomes its own session
// leader, detached from the CLI's controlling terminal and process group -
// it must keep running after the launching CLI invocation exits.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func isAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func terminate(pid int) {
	_ = syscall.Kill(pid, syscall.SIGTERM)
}

func kill(pid int) {
	_ = syscall.Kill(pid, syscall.SIGKILL)
}
