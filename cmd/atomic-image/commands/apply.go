package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/krsacme/ansible-modules-extras/internal/config"
	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
	"github.com/krsacme/ansible-modules-extras/pkg/db"
	"github.com/krsacme/ansible-modules-extras/pkg/errors"
	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
	"github.com/krsacme/ansible-modules-extras/pkg/module"
	"github.com/spf13/cobra"
)

// addApplyFlags registers the module parameters as flags on cmd.
func addApplyFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Name of the container image")
	cmd.Flags().String("state", "started", "Desired state (started, stopped)")
	cmd.Flags().Bool("upgrade", false, "Force an update before starting")
	cmd.Flags().Bool("check", false, "Check mode: report without changing anything")
}

func runApply(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return emitFailure(out, err)
	}

	raw, err := moduleArgs(cmd, args)
	if err != nil {
		return emitFailure(out, err)
	}

	res := applyModule(cmd.Context(), cfg, atomic.NewExecRunner(), raw)
	if err := res.Emit(out); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	if res.Failed() {
		return errModuleFailed
	}
	return nil
}

// moduleArgs returns the raw module arguments from the args file or, when
// there is none, from the flags that were set.
func moduleArgs(cmd *cobra.Command, args []string) (map[string]any, error) {
	flags := cmd.Flags()
	flagged := flags.Changed("name") || flags.Changed("state") || flags.Changed("upgrade") || flags.Changed("check")

	if len(args) == 1 {
		if flagged {
			return nil, fmt.Errorf("module arguments come from either %s or flags, not both", args[0])
		}
		return module.LoadArgs(args[0])
	}

	raw := make(map[string]any)
	if flags.Changed("name") {
		raw[module.ParamName], _ = flags.GetString("name")
	}
	if flags.Changed("state") {
		raw[module.ParamState], _ = flags.GetString("state")
	}
	if flags.Changed("upgrade") {
		raw[module.ParamUpgrade], _ = flags.GetBool("upgrade")
	}
	if check, _ := flags.GetBool("check"); check {
		raw["_ansible_check_mode"] = true
	}
	return raw, nil
}

// applyModule runs one module invocation and journals it when configured.
// The journal never changes the result.
func applyModule(ctx context.Context, cfg *config.Config, runner atomic.Runner, raw map[string]any) module.Result {
	args, err := module.ParseArgs(raw)
	if err != nil {
		slog.Error("module_args_invalid", "error", err)
		return module.Failure(err)
	}

	ctrl := imagestate.NewController(atomic.NewTool(cfg.AtomicBin, runner))
	res := module.Execute(ctx, ctrl, args)

	if cfg.JournalEnabled() {
		if err := recordInvocation(ctx, cfg.HistoryDB, args, res); err != nil {
			slog.Warn("journal_record_failed", "history_db", cfg.HistoryDB, "error", err)
		}
	}
	return res
}

func recordInvocation(ctx context.Context, dbPath string, args *module.Args, res module.Result) error {
	if err := ensureDirectories(dbPath); err != nil {
		return err
	}

	repo, err := db.NewRepository(dbPath)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	return repo.Create(ctx, &db.Invocation{
		Image:   args.Params.Name,
		State:   args.Params.State.String(),
		Upgrade: args.Params.Upgrade,
		Changed: res.Changed(),
		Failed:  res.Failed(),
		Skipped: res.Skipped(),
		RC:      res.RC(),
		Message: res.Message(),
	})
}

func emitFailure(out io.Writer, err error) error {
	if emitErr := module.Failure(err).Emit(out); emitErr != nil {
		return errors.Wrap(emitErr, "failed to write result")
	}
	return errModuleFailed
}
