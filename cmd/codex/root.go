package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codex/internal/config"
	"codex/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	logLevel   string
	logFormat  string
	configPath string

	// cfg is loaded in PersistentPreRunE; empty when --config is not set.
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{cfg: &config.Config{}}
	cmd := &cobra.Command{
		Use:   "codex",
		Short: "Deterministic expansion and integrity locking of the codex dataset",
		Long: `codex expands hand-authored seed nodes into a fully derived dataset,
seals every record with a SHA-256 lock hash, and re-verifies those hashes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rf.setup(cmd)
		},
	}
	cmd.Version = version

	pf := cmd.PersistentFlags()
	pf.StringVar(&rf.logLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	pf.StringVar(&rf.logFormat, "log-format", "", "Log format: text or json (default text)")
	pf.StringVar(&rf.configPath, "config", "", "Path to a codex config file (YAML/JSON)")

	cmd.AddCommand(newBuildCmd(rf))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newSliceCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newShowCmd())
	return cmd
}

// setup loads the config file and configures logging on stderr.
func (rf *rootFlags) setup(cmd *cobra.Command) error {
	if rf.configPath != "" {
		c, err := config.LoadFromPath(rf.configPath)
		if err != nil {
			return err
		}
		rf.cfg = c
	}
	level, err := logging.ParseLevel(config.String(rf.logLevel, "", rf.cfg.LogLevel, "info"))
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(config.String(rf.logFormat, "", rf.cfg.LogFormat, logging.FormatText))
	if err != nil {
		return err
	}
	logging.Init(level, format, cmd.ErrOrStderr())
	return nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
