// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-mentat/internal/pipeline"
	"github.com/pdiddy/paper-mentat/internal/report"
	"github.com/pdiddy/paper-mentat/internal/retrieve"
	"github.com/pdiddy/paper-mentat/internal/seen"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

const pdfSubdir = "pdfs"

// addRunFlags registers the output flags shared by every result-producing
// subcommand.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("download", false, "download PDFs for open-access results")
	cmd.Flags().Bool("new-only", false, "drop papers already seen in earlier runs")
	cmd.Flags().Bool("report-only", false, "print the report without saving results")
	cmd.Flags().String("output", "", "results filename (default: timestamped)")
}

// finishRun applies the shared output path to a batch of results: new-only
// filtering, the printed report, optional PDF download, the results JSON
// artifact, and seen-store bookkeeping.
func finishRun(cmd *cobra.Command, cfg types.PipelineConfig, p *pipeline.Pipeline, results []types.ProcessingResult) error {
	download, _ := cmd.Flags().GetBool("download")
	newOnly, _ := cmd.Flags().GetBool("new-only")
	reportOnly, _ := cmd.Flags().GetBool("report-only")
	outputName, _ := cmd.Flags().GetString("output")

	ctx := cmd.Context()

	var store *seen.Store
	if newOnly {
		var err error
		store, err = seen.NewStore(cfg.Output.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		before := len(results)
		results, err = store.FilterNew(ctx, results)
		if err != nil {
			return err
		}
		logger.Info().Int("before", before).Int("after", len(results)).Msg("filtered to new papers")
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Generate(results))

	if reportOnly {
		return nil
	}

	if download && cfg.Output.SavePDFs {
		stats, err := retrieve.DownloadArtifacts(ctx, p.Gateway(), results, filepath.Join(cfg.Output.Dir, pdfSubdir), logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nDownloads: %d fetched, %d already present, %d failed\n",
			stats.Downloaded, stats.Skipped, stats.Failed)
	}

	path, err := pipeline.SaveResults(results, cfg.Output.Dir, outputName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", path)

	if store != nil {
		if err := store.MarkSeen(ctx, results, download); err != nil {
			return err
		}
	}
	return nil
}
