//go:build windows

package child

import (
	"os/exec"
	"syscall"
)

// setDetached places the child in its own process group. Windows has no
// POSIX session/controlling-terminal concept; CREATE_NEW_PROCESS_GROUP is
// the closest available primitive.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// killGroup sends a direct kill to the child process. Windows process
// groups don't support a POSIX-style negated-pid broadcast signal; a
// debuggee spawned by the adapter is not guaranteed to die with it, a
// known platform gap.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
