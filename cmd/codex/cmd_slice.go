package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codex/internal/build"
	"codex/internal/logging"
	"codex/internal/node"
	"codex/internal/slice"
)

type sliceFlags struct {
	input   string
	output  string
	element string
	culture string
}

func newSliceCmd() *cobra.Command {
	var f sliceFlags
	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Export the nodes matching an element or deity culture",
		Long: `Write the subset of a derived dataset whose element contains --element
and whose gods or goddesses include one of --culture. Records are copied
unchanged, so the slice still validates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSlice(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Derived dataset JSON (required)")
	fl.StringVarP(&f.output, "output", "o", "", "Slice output path (required)")
	fl.StringVar(&f.element, "element", "", "Element to match")
	fl.StringVar(&f.culture, "culture", "", "Deity culture to match")
	return cmd
}

func runSlice(cmd *cobra.Command, f *sliceFlags) error {
	if err := requireFlag("input", f.input); err != nil {
		return err
	}
	if err := requireFlag("output", f.output); err != nil {
		return err
	}
	recs, err := loadDataset(f.input)
	if err != nil {
		return err
	}
	filter := slice.Filter{Element: f.element, Culture: f.culture}
	out := slice.Apply(recs, filter)
	if filter.Empty() {
		logging.New("slice").Warn("no filter given; exporting every node")
	}

	data, err := build.Encode(out, true)
	if err != nil {
		return err
	}
	if err := build.WriteAtomic(f.output, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nodes → %s\n", len(out), f.output)
	return nil
}

func loadDataset(path string) ([]*node.Record, error) {
	recs, err := build.LoadRecords(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return recs, nil
}
