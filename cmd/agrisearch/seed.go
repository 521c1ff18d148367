package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/agri365/agri365/internal/bootstrap"
	"github.com/agri365/agri365/internal/core/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog stored in Memgraph",
	Long: `Replace the catalog stored in Memgraph with the built-in entries or a
catalog file. The server reads it back with catalog.source = "memgraph".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")

		var src catalog.Source = catalog.StaticSource(catalog.DefaultEntries())
		if from != "" {
			src = catalog.FileSource{Path: from}
		}
		c, err := catalog.Load(cmd.Context(), src)
		if err != nil {
			return err
		}

		d, err := bootstrap.DialGraph(cmd.Context(), cfg.Memgraph, logger)
		if err != nil {
			return err
		}
		defer d.Close(cmd.Context())

		if err := d.BuildIndices(cmd.Context()); err != nil {
			return errors.Wrap(err, "build indices")
		}
		if err := catalog.SaveToGraph(cmd.Context(), d, c.Entries()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries into %s\n", c.Len(), cfg.Memgraph.URI)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("from", "", "catalog file to seed from (default: built-in entries)")
}
