package imagestate

import (
	"fmt"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
	"github.com/krsacme/ansible-modules-extras/pkg/security"
)

// State is the desired run-state of an image.
type State string

// Supported states
const (
	StateStarted State = "started"
	StateStopped State = "stopped"
)

// States lists every supported state in declaration order.
var States = []State{StateStarted, StateStopped}

// ParseState converts s into a State.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown state %q", s)
}

func (s State) String() string {
	return string(s)
}

// Output markers written by the atomic tool. Success detection depends on
// these exact English substrings.
const (
	MarkerUpToDate = "Image is up to date"
	MarkerRunning  = "Container is running"
)

// Params is the desired state of one image.
type Params struct {
	Name    string
	Upgrade bool
	State   State
}

// Validate checks the parameters before any command runs.
func (p Params) Validate() error {
	if err := security.ValidateImageName(p.Name); err != nil {
		return err
	}
	if _, err := ParseState(string(p.State)); err != nil {
		return err
	}
	return nil
}

// Outcome is the successful result of Apply.
type Outcome struct {
	// Changed reports whether the host was altered.
	Changed bool
	// Output is the stdout of the state-transition command.
	Output string
	// Running is set when a start found the container already running.
	Running bool
}

// Step identifies the external command an error came from.
type Step string

// Steps of an Apply run
const (
	StepPreflight Step = "preflight"
	StepUpgrade   Step = "upgrade"
	StepRun       Step = "run"
	StepStop      Step = "stop"
)

// CommandError is returned when a command ran and exited nonzero.
type CommandError struct {
	Step   Step
	Result *atomic.Result
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s command failed with exit code %d: %s",
		e.Step, e.Result.ExitCode, strings.TrimSpace(e.Result.Stderr))
}

// ExitCode returns the exit code of the failed command.
func (e *CommandError) ExitCode() int {
	return e.Result.ExitCode
}

// Stderr returns the captured error stream of the failed command.
func (e *CommandError) Stderr() string {
	return e.Result.Stderr
}
