//go:build unix

package hydra

import (
	"os/exec"
	"syscall"
)

func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		// negative pid signals every process in the group
		return syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}
}
