// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-mentat/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process <paper-list>",
	Short: "Resolve every identifier in a paper list file",
	Long: `Process reads a paper list (plain text, JSON, or YAML), extracts DOIs and
URLs, and resolves each one: DOIs through Crossref, arXiv links locally,
and URLs with embedded DOIs through the DOI path. Individual failures are
recorded per entry and never stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	addRunFlags(processCmd)

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	results, err := p.ProcessPaperList(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return finishRun(cmd, cfg, p, results)
}
