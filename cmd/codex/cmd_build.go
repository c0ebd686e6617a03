package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codex/internal/build"
	"codex/internal/config"
)

// defaultRulesPath is the palette table shipped with the repository.
const defaultRulesPath = "data/taxonomies/color_palettes.json"

type buildFlags struct {
	input     string
	rules     string
	output    string
	onInvalid string
	pretty    bool
	workers   int
}

func newBuildCmd(rf *rootFlags) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Expand seed nodes into the hash-locked dataset",
		Long: `Expand every seed record into its derived form and publish the collection.

The rules table defaults to $CODEX_RULES, then the config file, then
` + defaultRulesPath + `. Malformed seeds abort the run unless
--on-invalid=skip (or $CODEX_ON_INVALID) is set. The output file is replaced
atomically; a failed run never leaves a partial file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, rf, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Seed dataset JSON (required)")
	fl.StringVar(&f.rules, "rules", "", "Palette table, JSON or YAML (default: $CODEX_RULES)")
	fl.StringVarP(&f.output, "output", "o", "", "Derived dataset path (required)")
	fl.StringVar(&f.onInvalid, "on-invalid", "", "Malformed seed policy: fail or skip (default fail, or $CODEX_ON_INVALID)")
	fl.BoolVar(&f.pretty, "pretty", false, "Indent the output by two spaces")
	fl.IntVar(&f.workers, "workers", 1, "Parallel expansion workers (default: $CODEX_WORKERS)")
	return cmd
}

func runBuild(cmd *cobra.Command, rf *rootFlags, f *buildFlags) error {
	if err := requireFlag("input", f.input); err != nil {
		return err
	}
	if err := requireFlag("output", f.output); err != nil {
		return err
	}
	cfg := rf.cfg

	policy, err := build.ParsePolicy(config.String(f.onInvalid, config.EnvOnInvalid, cfg.OnInvalid, string(build.PolicyFail)))
	if err != nil {
		return err
	}
	workers, err := config.Int(f.workers, cmd.Flags().Changed("workers"), config.EnvWorkers, cfg.Workers, 1)
	if err != nil {
		return err
	}
	if workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", workers)
	}
	pretty := cfg.Pretty
	if cmd.Flags().Changed("pretty") {
		pretty = f.pretty
	}

	start := time.Now()
	rep, err := build.Run(cmd.Context(), build.Options{
		SeedPath:   f.input,
		RulesPath:  config.String(f.rules, config.EnvRules, cfg.Rules, defaultRulesPath),
		OutputPath: f.output,
		Pretty:     pretty,
		Policy:     policy,
		Workers:    workers,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderBuildReport(rep, time.Since(start)))
	return nil
}
