//go:build !windows

package gateway

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/ocfkit/svcagent/internal/logger"
)

// ExecProcess is the real ProcessControl backed by os/exec and signals.
// Log describes where the child's stdout/stderr go; when unset the child
// writes to /dev/null.
type ExecProcess struct {
	Log logger.Config
}

// StartProcess launches command detached in its own process group and returns
// the child pid without waiting for it. The service daemonizes on its own
// schedule; the agent only needs the pid for the marker file.
func (e ExecProcess) StartProcess(command string, env []string) (int, error) {
	cmd := buildCommand(command)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	outW, errW, _ := e.Log.Writers()
	if outW != nil {
		cmd.Stdout = outW
	} else {
		cmd.Stdout, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	if errW != nil {
		cmd.Stderr = errW
	} else {
		cmd.Stderr, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %q: %w", command, err)
	}
	pid := cmd.Process.Pid
	// Reap in the background so a child that exits before the agent does
	// is not left as a zombie for the remainder of the invocation.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

func (e ExecProcess) Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("terminate: invalid pid %d", pid)
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}

func (e ExecProcess) Kill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("kill: invalid pid %d", pid)
	}
	return syscall.Kill(pid, syscall.SIGKILL)
}

// Alive reports whether pid exists (EPERM counts: the process is there, we
// just may not own it).
func (e ExecProcess) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// buildCommand constructs an *exec.Cmd for the given command string. It avoids
// invoking a shell when not necessary; when obvious shell metacharacters are
// present it falls back to /bin/sh -c.
func buildCommand(cmdStr string) *exec.Cmd {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		// still create a command that will fail when started
		return exec.Command("/bin/true")
	}
	// #nosec G204
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		return exec.Command("/bin/sh", "-c", cmdStr)
	}
	parts := strings.Fields(cmdStr)
	name := parts[0]
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	// #nosec G204
	return exec.Command(name, args...)
}
