// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-mentat/internal/pipeline"
)

var fulltextCmd = &cobra.Command{
	Use:   "fulltext <query...>",
	Short: "Search the CORE full-text repository index",
	Long: `Fulltext queries CORE, which indexes repository deposits by their full
text rather than metadata alone. Multi-word queries match as proximity
phrases. Requires a core-api-key secret or core_api_key config entry;
without one the search returns nothing.`,
	RunE: runFulltext,
}

func init() {
	fulltextCmd.Flags().Int("max-results", 0, "maximum results (default from config)")
	addRunFlags(fulltextCmd)

	rootCmd.AddCommand(fulltextCmd)
}

func runFulltext(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")

	cfg := buildConfig()
	maxResults, _ := cmd.Flags().GetInt("max-results")

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	results := p.SearchFullText(cmd.Context(), query, maxResults)
	return finishRun(cmd, cfg, p, results)
}
