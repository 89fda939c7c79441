//go:build !windows

package child

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setDetached puts the child in a new session (Setsid) so it has no
// controlling terminal and cannot receive SIGTTIN/SIGTTOU for background
// I/O.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// killGroup signals SIGTERM to the negated pid, targeting the whole process
// group the adapter leads (it typically forks a launcher and a debuggee
// beneath itself). ESRCH (already gone) is not an error worth surfacing
// during teardown.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
}
