//go:build linux

package atomic

import (
	"context"
	stderrors "errors"
	"strings"
	"syscall"
	"testing"
)

func TestExecRunner_CapturesStreams(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out\n")
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err\n")
	}
}

func TestExecRunner_NonzeroExit(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo nope >&2; exit 3")
	if err != nil {
		t.Fatalf("nonzero exit should not be a Run() error, got %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stderr) != "nope" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "nope\n")
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	tests := []string{
		"atomic-image-test-no-such-binary",
		"/nonexistent/atomic-image-test/atomic",
	}
	for _, bin := range tests {
		_, err := r.Run(context.Background(), bin, "-v")
		var startErr *StartError
		if !stderrors.As(err, &startErr) {
			t.Fatalf("Run(%s) error = %v, want *StartError", bin, err)
		}
		if startErr.Code() != int(syscall.ENOENT) {
			t.Errorf("Code() = %d, want %d", startErr.Code(), int(syscall.ENOENT))
		}
	}
}
