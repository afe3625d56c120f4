// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

// SaveResults writes results as an indented JSON array under dir, creating
// the directory if needed. An empty filename picks a timestamped default.
// It returns the path written.
func SaveResults(results []types.ProcessingResult, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if filename == "" {
		filename = fmt.Sprintf("results_%s.json", time.Now().Format("20060102_150405"))
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadResults reads back a results file written by SaveResults.
func LoadResults(path string) ([]types.ProcessingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []types.ProcessingResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return results, nil
}
