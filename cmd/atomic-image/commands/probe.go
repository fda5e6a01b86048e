package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/atomic"
	"github.com/krsacme/ansible-modules-extras/pkg/errors"
	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the atomic tool is usable on this host",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return probe(cmd.Context(), cmd.OutOrStdout(), atomic.NewTool(cfg.AtomicBin, atomic.NewExecRunner()))
}

func probe(ctx context.Context, out io.Writer, tool *atomic.Tool) error {
	res, err := imagestate.NewController(tool).Preflight(ctx)
	if err != nil {
		return errors.Wrap(err, "atomic probe failed")
	}
	fmt.Fprintf(out, "%s version %s\n", tool.Bin(), strings.TrimSpace(res.Stdout))
	return nil
}
