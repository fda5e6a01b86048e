// Package atomictest provides a scripted atomic.Runner for tests.
package atomictest

import (
	"context"
	"strings"
	"sync"

	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
)

// Runner answers commands from a script keyed by their arguments
// (without the binary name), e.g. "run rhel7/rsyslog". Unscripted
// commands succeed with empty output.
type Runner struct {
	mu        sync.Mutex
	responses map[string]atomic.Result
	errs      map[string]error
	calls     []string
	bins      []string
}

// NewRunner creates an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{
		responses: make(map[string]atomic.Result),
		errs:      make(map[string]error),
	}
}

// On scripts the result returned for args.
func (r *Runner) On(args string, res atomic.Result) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[args] = res
	return r
}

// FailStart makes args fail to start with err.
func (r *Runner) FailStart(args string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[args] = err
	return r
}

// Run implements atomic.Runner.
func (r *Runner) Run(_ context.Context, name string, args ...string) (*atomic.Result, error) {
	key := strings.Join(args, " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, key)
	r.bins = append(r.bins, name)

	if err, ok := r.errs[key]; ok {
		return nil, &atomic.StartError{Cmd: name + " " + key, Err: err}
	}
	res := r.responses[key]
	return &res, nil
}

// Calls returns the argument strings of every invocation, in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Bins returns the binary name of every invocation, in order.
func (r *Runner) Bins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bins...)
}
