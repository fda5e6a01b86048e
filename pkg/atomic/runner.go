// Package atomic invokes the atomic host's `atomic` command-line tool.
package atomic

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// Result is the captured outcome of one external process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs an external command to completion and captures its output.
// A non-nil error means the process could not be started; a process that
// ran and exited nonzero is reported through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// StartError is returned when a command could not be started at all.
type StartError struct {
	Cmd string
	Err error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Cmd, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// Code returns the errno reported by the OS, or 1 when there is none.
func (e *StartError) Code() int {
	if stderrors.Is(e.Err, exec.ErrNotFound) {
		return int(syscall.ENOENT)
	}
	var errno syscall.Errno
	if stderrors.As(e.Err, &errno) {
		return int(errno)
	}
	return 1
}

// ExecRunner runs commands as child processes of the current process.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	slog.Info("atomic_command_start", "cmd", cmdline)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			slog.Error("atomic_command_start_failed", "cmd", cmdline, "error", err)
			return nil, &StartError{Cmd: cmdline, Err: err}
		}
		res.ExitCode = exitErr.ExitCode()
		slog.Warn("atomic_command_failed", "cmd", cmdline, "rc", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
		return res, nil
	}

	slog.Info("atomic_command_complete", "cmd", cmdline, "stdout_bytes", stdout.Len())
	return res, nil
}
