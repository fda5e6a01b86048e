// Package imagestate converges a container image on an atomic host to a
// desired run-state by driving the atomic tool.
package imagestate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
	"github.com/krsacme/ansible-modules-extras/pkg/errors"
)

// Controller applies Params using the atomic tool. It keeps no state between
// calls and runs one command at a time.
type Controller struct {
	tool *atomic.Tool
}

// NewController creates a controller driving tool.
func NewController(tool *atomic.Tool) *Controller {
	return &Controller{tool: tool}
}

// Apply validates the host, optionally forces an update, runs the state
// transition and classifies the result. Any failed command ends the run.
func (c *Controller) Apply(ctx context.Context, p Params) (*Outcome, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid parameters")
	}

	slog.Info("image_state_apply", "image", p.Name, "state", p.State, "upgrade", p.Upgrade)

	if _, err := c.Preflight(ctx); err != nil {
		return nil, err
	}

	upgraded := false
	if p.State == StateStarted && p.Upgrade {
		var err error
		if upgraded, err = c.upgrade(ctx, p.Name); err != nil {
			return nil, err
		}
	}

	res, err := c.transition(ctx, p)
	if err != nil {
		return nil, err
	}

	if p.State == StateStarted && strings.Contains(res.Stdout, MarkerRunning) {
		slog.Info("image_already_running", "image", p.Name, "changed", upgraded)
		return &Outcome{Changed: upgraded, Output: res.Stdout, Running: true}, nil
	}

	slog.Info("image_state_applied", "image", p.Name, "state", p.State, "changed", true)
	return &Outcome{Changed: true, Output: res.Stdout}, nil
}

// Preflight runs the capability probe and returns its result.
func (c *Controller) Preflight(ctx context.Context) (*atomic.Result, error) {
	slog.Info("preflight_start", "bin", c.tool.Bin())
	res, err := c.tool.Version(ctx)
	return check(StepPreflight, res, err)
}

// upgrade forces an update and reports whether the image changed.
func (c *Controller) upgrade(ctx context.Context, image string) (bool, error) {
	res, err := c.tool.ForceUpdate(ctx, image)
	if res, err = check(StepUpgrade, res, err); err != nil {
		return false, err
	}
	if strings.Contains(res.Stdout, MarkerUpToDate) {
		slog.Info("image_up_to_date", "image", image)
		return false, nil
	}
	slog.Info("image_upgraded", "image", image)
	return true, nil
}

func (c *Controller) transition(ctx context.Context, p Params) (*atomic.Result, error) {
	if p.State == StateStopped {
		res, err := c.tool.Stop(ctx, p.Name)
		return check(StepStop, res, err)
	}
	res, err := c.tool.Run(ctx, p.Name)
	return check(StepRun, res, err)
}

func check(step Step, res *atomic.Result, err error) (*atomic.Result, error) {
	if err != nil {
		return nil, errors.Wrapf(err, "%s command", step)
	}
	if !res.Success() {
		slog.Error("image_state_step_failed", "step", step, "rc", res.ExitCode)
		return nil, &CommandError{Step: step, Result: res}
	}
	return res, nil
}
