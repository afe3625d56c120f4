// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-mentat/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search scholarly sources for papers matching a query",
	Long: `Search fans a free-text query out to arXiv, Crossref, and OpenAlex,
deduplicates across sources, and verifies open access for every hit. arXiv
results take priority over Crossref, which takes priority over OpenAlex.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text query (alternative to positional arguments)")
	searchCmd.Flags().Int("max-results", 0, "maximum merged results (default from config)")
	addRunFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("provide a search query")
	}

	cfg := buildConfig()
	maxResults, _ := cmd.Flags().GetInt("max-results")

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	results := p.SearchAdHoc(cmd.Context(), query, maxResults)
	return finishRun(cmd, cfg, p, results)
}
