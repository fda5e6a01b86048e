package module

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
)

// Result keys
const (
	KeyChanged    = "changed"
	KeyFailed     = "failed"
	KeySkipped    = "skipped"
	KeyRC         = "rc"
	KeyMsg        = "msg"
	KeyResult     = "result"
	KeyErr        = "err"
	KeyInvocation = "invocation"
)

// PreflightFailedMsg is reported when the host cannot run the atomic tool.
const PreflightFailedMsg = "Error in running atomic command"

// Result is the JSON document printed for the orchestrator.
type Result map[string]any

// Success builds the result of a converged image. Output of a start that
// found the container already running is reported under "result", every
// other output under "msg".
func Success(o *imagestate.Outcome) Result {
	key := KeyMsg
	if o.Running {
		key = KeyResult
	}
	return Result{
		KeyChanged: o.Changed,
		key:        o.Output,
	}
}

// CheckModeSkip builds the result returned in check mode.
func CheckModeSkip() Result {
	return Result{
		KeyChanged: false,
		KeySkipped: true,
		KeyMsg:     "remote module (" + Name + ") does not support check mode",
	}
}

// Failure maps an error onto a failure result.
func Failure(err error) Result {
	res := Result{KeyFailed: true}

	var cmdErr *imagestate.CommandError
	var startErr *atomic.StartError
	switch {
	case stderrors.As(err, &cmdErr):
		res[KeyRC] = cmdErr.ExitCode()
		if cmdErr.Step == imagestate.StepPreflight {
			res[KeyMsg] = PreflightFailedMsg
			res[KeyErr] = cmdErr.Stderr()
		} else {
			res[KeyMsg] = cmdErr.Stderr()
		}
	case stderrors.As(err, &startErr):
		res[KeyRC] = startErr.Code()
		res[KeyMsg] = err.Error()
	default:
		res[KeyMsg] = err.Error()
	}
	return res
}

// WithInvocation records the resolved module arguments on the result.
func (r Result) WithInvocation(args *Args) Result {
	if args != nil {
		r[KeyInvocation] = map[string]any{"module_args": args.ModuleArgs()}
	}
	return r
}

// Failed reports whether r is a failure result.
func (r Result) Failed() bool {
	failed, _ := r[KeyFailed].(bool)
	return failed
}

// Changed reports whether r records a change.
func (r Result) Changed() bool {
	changed, _ := r[KeyChanged].(bool)
	return changed
}

// Skipped reports whether r is a check-mode skip.
func (r Result) Skipped() bool {
	skipped, _ := r[KeySkipped].(bool)
	return skipped
}

// RC returns the exit code carried by a failure, or 0.
func (r Result) RC() int {
	rc, _ := r[KeyRC].(int)
	return rc
}

// Message returns whichever of msg or result is set.
func (r Result) Message() string {
	if msg, ok := r[KeyMsg].(string); ok {
		return msg
	}
	out, _ := r[KeyResult].(string)
	return out
}

// Emit writes r as a single JSON document.
func (r Result) Emit(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// firstLine trims multi-line command output for log attributes.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
