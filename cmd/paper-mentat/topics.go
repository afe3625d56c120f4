// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-mentat/internal/pipeline"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topic...]",
	Short: "Search the configured topics of interest",
	Long: `Topics runs one search per topic, taken from the arguments or, with none
given, from topics_of_interest in the config file. Combined with --new-only
it behaves as a standing literature watch: repeated runs surface only papers
not seen before.`,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().Int("max-per-topic", 10, "maximum results per topic")
	addRunFlags(topicsCmd)

	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	topics := args
	if len(topics) == 0 {
		topics = cfg.Search.Topics
	}
	if len(topics) == 0 {
		return fmt.Errorf("no topics given and no topics_of_interest configured")
	}
	maxPerTopic, _ := cmd.Flags().GetInt("max-per-topic")

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	results := p.SearchByTopics(cmd.Context(), topics, maxPerTopic)
	return finishRun(cmd, cfg, p, results)
}
