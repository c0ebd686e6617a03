package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codex/internal/catalog"
	"codex/internal/logging"
)

// defaultDBPath is where the catalog lives when --db is not given.
const defaultDBPath = ".codex/codex.db"

type catalogFlags struct {
	input string
	db    string
}

func newCatalogCmd() *cobra.Command {
	var f catalogFlags
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Publish a verified dataset into a SQLite catalog",
		Long: `Verify every lock hash of a derived dataset, then replace the contents
of a SQLite catalog with it in a single transaction. A dataset with any
mismatch is refused and the catalog is left as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Derived dataset JSON (required)")
	fl.StringVar(&f.db, "db", defaultDBPath, "Catalog DB path")
	return cmd
}

func runCatalog(cmd *cobra.Command, f *catalogFlags) error {
	if err := requireFlag("input", f.input); err != nil {
		return err
	}
	recs, err := loadDataset(f.input)
	if err != nil {
		return err
	}
	c, err := catalog.Open(f.db)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Replace(cmd.Context(), recs)
	if err != nil {
		return fmt.Errorf("publish catalog: %w", err)
	}
	logging.New("catalog").Info("catalog replaced", "db", f.db, "nodes", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Catalogued %d nodes → %s\n", n, f.db)
	return nil
}
