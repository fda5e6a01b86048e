package module

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
)

// Execute applies args with ctrl and returns the result to print. A panic
// inside the controller is reported as a failure instead of crashing the
// module.
func Execute(ctx context.Context, ctrl *imagestate.Controller, args *Args) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("module_panic", "panic", r)
			res = Failure(fmt.Errorf("%v", r)).WithInvocation(args)
		}
	}()

	if args.CheckMode {
		slog.Info("module_check_mode_skipped", "image", args.Params.Name)
		return CheckModeSkip().WithInvocation(args)
	}

	outcome, err := ctrl.Apply(ctx, args.Params)
	if err != nil {
		slog.Error("module_failed", "image", args.Params.Name, "error", err)
		return Failure(err).WithInvocation(args)
	}

	slog.Info("module_complete", "image", args.Params.Name, "changed", outcome.Changed, "output", firstLine(outcome.Output))
	return Success(outcome).WithInvocation(args)
}
