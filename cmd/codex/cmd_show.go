package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codex/internal/catalog"
	"codex/internal/format"
	"codex/internal/node"
	"codex/internal/verify"
)

type showFlags struct {
	input  string
	db     string
	nodeID int
	format string
}

func newShowCmd() *cobra.Command {
	var f showFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one derived node as a table",
		Long: `Print the fields of one node from a derived dataset (--input) or from a
published catalog (--db), together with its lock status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Derived dataset JSON")
	fl.StringVar(&f.db, "db", "", "Catalog DB path (alternative to --input)")
	fl.IntVar(&f.nodeID, "node", 0, "Node id (required)")
	fl.StringVar(&f.format, "format", "ascii", "Output format: ascii or markdown")
	return cmd
}

func runShow(cmd *cobra.Command, f *showFlags) error {
	if f.nodeID == 0 {
		return fmt.Errorf("--node is required")
	}
	if (f.input == "") == (f.db == "") {
		return fmt.Errorf("exactly one of --input or --db is required")
	}
	mode, err := format.ParseMode(f.format)
	if err != nil {
		return err
	}

	rec, err := findNode(cmd, f)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("node %d not found", f.nodeID)
	}
	_, _, locked, err := verify.Record(rec)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderNode(rec, locked, mode))
	return nil
}

func findNode(cmd *cobra.Command, f *showFlags) (*node.Record, error) {
	if f.db != "" {
		c, err := catalog.OpenExisting(f.db)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		e, err := c.Get(cmd.Context(), f.nodeID)
		if err != nil || e == nil {
			return nil, err
		}
		return e.Record, nil
	}
	recs, err := loadDataset(f.input)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if id, _ := r.NodeID(); id == f.nodeID {
			return r, nil
		}
	}
	return nil, nil
}
