package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/searchindex"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Search index utilities",
	}

	indexCmd.AddCommand(newIndexBuildCommand(ctx))
	indexCmd.AddCommand(newIndexShowCommand(ctx))

	return indexCmd
}

func newIndexBuildCommand(ctx *commandContext) *cobra.Command {
	var exportJSON bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the search index from the CMS and sitemap",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if exportJSON && cfg.Index.ExportPath == "" {
				buildCfg := *cfg
				buildCfg.Index.ExportPath = filepath.Join(filepath.Dir(cfg.Index.DBPath), "search-index.json")
				cfg = &buildCfg
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			services, err := buildServices(cfg, logger)
			if err != nil {
				return err
			}

			store, err := searchindex.Open(cmd.Context(), cfg.Index.DBPath)
			if err != nil {
				return fmt.Errorf("open search index: %w", err)
			}
			defer store.Close()

			builder, err := buildIndexer(cfg, services, store, logger)
			if err != nil {
				return err
			}

			result, err := builder.Rebuild(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexed %d records in %s\n", result.Records, result.Duration.Round(10*time.Millisecond))
			fmt.Fprintln(out, renderCategoryCounts(result.Counts))
			if result.ExportedTo != "" {
				fmt.Fprintf(out, "Exported JSON to %s\n", result.ExportedTo)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exportJSON, "json", false, "Also export the index snapshot as JSON next to the database")
	return cmd
}

func newIndexShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current search index contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := searchindex.Open(cmd.Context(), cfg.Index.DBPath)
			if err != nil {
				return fmt.Errorf("open search index: %w", err)
			}
			defer store.Close()

			snapshot, err := store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(snapshot.Records)
			}

			fmt.Fprintf(out, "Rebuilt at: %s\n", snapshot.RebuiltAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Records:    %d\n", len(snapshot.Records))
			fmt.Fprintln(out, renderCategoryCounts(snapshot.CountsByCategory()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Dump the index records as JSON")
	return cmd
}

func renderCategoryCounts(counts map[string]int) string {
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([][]string, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, []string{category, strconv.Itoa(counts[category])})
	}
	return renderTable([]string{"Category", "Records"}, rows, []columnAlignment{alignLeft, alignRight})
}
