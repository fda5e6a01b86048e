package commands

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/krsacme/ansible-modules-extras/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errModuleFailed is returned once a failure result has been printed.
var errModuleFailed = stderrors.New("module reported failure")

var rootCmd = &cobra.Command{
	Use:   "atomic-image [args-file]",
	Short: "Manage the run-state of container images on an atomic host",
	Long: `Converges a container image on an atomic host to the started or stopped
state, optionally forcing an update first, and prints a JSON result.

Run as an Ansible binary module, the only argument is the path of the module
arguments file. Operators may pass --name, --state and --upgrade instead.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runApply,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errModuleFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("atomic-bin", "atomic", "Path or name of the atomic tool")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite invocation journal path (disabled when empty)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	viper.BindPFlag("atomic-bin", rootCmd.PersistentFlags().Lookup("atomic-bin"))
	viper.BindPFlag("history-db", rootCmd.PersistentFlags().Lookup("history-db"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	addApplyFlags(rootCmd)
}

// setupLogging installs the configured logger. Configuration errors are
// left to the command, which reports them in its own format.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return nil
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Warn("logger_config_ignored", "error", err)
		return nil
	}
	slog.SetDefault(logger)
	return nil
}
