package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agri365/agri365/internal/bootstrap"
	"github.com/agri365/agri365/internal/config"
	"github.com/agri365/agri365/internal/core"
	"github.com/agri365/agri365/internal/core/model"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Rank catalog entries against a free-text query",
	Long: `Rank catalog entries against a free-text query.

Examples:
  agrisearch search tomoto
  agrisearch search "spider mite" --json
  agrisearch search blight --catalog config/catalog.yaml --threshold 0.4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		if catalogPath != "" {
			cfg.Catalog = config.CatalogConfig{Source: config.CatalogFile, Path: catalogPath}
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Search.Threshold = threshold
		}
		if cmd.Flags().Changed("limit") {
			cfg.Search.Limit = limit
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		c, err := bootstrap.OpenCatalog(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		results, err := bootstrap.NewMatcher(c, cfg, logger).Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		return writeTable(cmd.OutOrStdout(), results)
	},
}

func init() {
	searchCmd.Flags().String("catalog", "", "catalog file (.toml, .yaml, .json) instead of the configured source")
	searchCmd.Flags().Float64("threshold", core.DefaultThreshold, "minimum score, exclusive")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = all)")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
}

func writeJSON(w io.Writer, results []model.ScoredEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Success   bool                `json:"success"`
		Data      []model.ScoredEntry `json:"data"`
		Algorithm string              `json:"algorithm"`
	}{true, results, core.Algorithm})
}

func writeTable(w io.Writer, results []model.ScoredEntry) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTYPE\tNAME\tTARGET")
	for _, r := range results {
		fmt.Fprintf(tw, "%.3f\t%s\t%s\t%s\n", r.Score, r.Type, r.Name, r.Target)
	}
	return tw.Flush()
}
