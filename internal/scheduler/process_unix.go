//go:build !windows

package scheduler

import (
	"os/exec"
	"syscall"
)

func detachSupervised(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func isAliveExternal(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
