// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve downloads resolved open-access artifacts to disk.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

const maxFilenameRunes = 80

// Stats summarizes a batch download run. Skipped entries already existed on
// disk and count as successes.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of artifacts attempted.
func (s Stats) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// DownloadArtifacts fetches the full text of every result that resolved an
// OA location, writing PDFs under dir. Results without metadata or without
// a location are ignored. Individual failures are logged and counted, never
// fatal. Downloads go through the shared gateway, so they obey the same
// throttle as API traffic.
func DownloadArtifacts(ctx context.Context, gw *gateway.Client, results []types.ProcessingResult, dir string, log zerolog.Logger) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("creating download directory: %w", err)
	}

	for _, r := range results {
		if r.Metadata == nil || r.Metadata.OAURL == "" {
			continue
		}

		path := filepath.Join(dir, safeFilename(r.Metadata.Title))
		if _, err := os.Stat(path); err == nil {
			log.Debug().Str("path", path).Msg("already downloaded")
			stats.Skipped++
			continue
		}

		if err := downloadPDF(ctx, gw, r.Metadata.OAURL, path); err != nil {
			log.Warn().Str("url", r.Metadata.OAURL).Err(err).Msg("download failed")
			stats.Failed++
			continue
		}
		log.Info().Str("path", path).Msg("downloaded")
		stats.Downloaded++
	}
	return stats, nil
}

// downloadPDF fetches url into destPath through a temp file, renaming only
// after the body is fully written. Responses that do not look like a PDF
// are rejected without touching destPath.
func downloadPDF(ctx context.Context, gw *gateway.Client, url, destPath string) error {
	resp, err := gw.Get(ctx, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !looksLikePDF(resp, url) {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return fmt.Errorf("response from %s is not a PDF", url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".retrieve-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// looksLikePDF accepts a response when the Content-Type says PDF, or when
// the URL itself is PDF-shaped. Repository landing pages often serve PDFs
// with sloppy content types, so the URL heuristics stay.
func looksLikePDF(resp *http.Response, url string) bool {
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "pdf") {
		return true
	}
	return strings.HasSuffix(url, ".pdf") || strings.Contains(url, "arxiv.org/pdf")
}

// safeFilename derives a filesystem-safe PDF name from a title: only
// letters, digits, spaces, and hyphens survive, truncated to a fixed rune
// budget.
func safeFilename(title string) string {
	var b strings.Builder
	runes := 0
	for _, r := range title {
		if runes >= maxFilenameRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
			runes++
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = "paper"
	}
	return name + ".pdf"
}
