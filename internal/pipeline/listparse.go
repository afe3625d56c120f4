// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// ParsePaperList extracts paper identifiers from free text. DOIs are
// rendered as resolver URLs so every entry is uniformly fetchable; plain
// URLs are kept as-is except for doi.org links, which the DOI pass already
// covers. Order is preserved, duplicates dropped.
func ParsePaperList(text string) []string {
	var entries []string
	seen := make(map[string]bool)

	add := func(entry string) {
		if entry == "" || seen[entry] {
			return
		}
		seen[entry] = true
		entries = append(entries, entry)
	}

	for _, doi := range doiPattern.FindAllString(text, -1) {
		add("https://doi.org/" + trimIdentifier(doi))
	}
	for _, url := range urlPattern.FindAllString(text, -1) {
		if strings.Contains(url, "doi.org/") {
			continue
		}
		add(trimIdentifier(url))
	}
	return entries
}

// ParsePaperListFile reads a paper list from disk. JSON and YAML files are
// walked structurally for identifier-bearing fields; anything else is
// treated as free text.
func ParsePaperListFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return collectIdentifiers(tree), nil
	case ".yaml", ".yml":
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return collectIdentifiers(tree), nil
	default:
		return ParsePaperList(string(data)), nil
	}
}

// identifierKeys are the map fields whose string values count as paper
// identifiers in structured lists.
var identifierKeys = map[string]bool{"url": true, "doi": true, "link": true}

// collectIdentifiers walks a decoded JSON/YAML tree gathering identifier
// values: strings under url/doi/link keys, plus bare strings in lists that
// already look like DOIs or URLs. Other strings are ignored.
func collectIdentifiers(tree any) []string {
	var entries []string
	seen := make(map[string]bool)

	add := func(entry string) {
		if entry == "" || seen[entry] {
			return
		}
		seen[entry] = true
		entries = append(entries, entry)
	}

	var walk func(node any, keyed bool)
	walk = func(node any, keyed bool) {
		switch v := node.(type) {
		case map[string]any:
			for key, child := range v {
				walk(child, identifierKeys[strings.ToLower(key)])
			}
		case []any:
			for _, child := range v {
				walk(child, keyed)
			}
		case string:
			switch {
			case strings.HasPrefix(v, "10."):
				add("https://doi.org/" + trimIdentifier(v))
			case strings.HasPrefix(v, "http"):
				add(trimIdentifier(v))
			case keyed:
				// Keyed but not identifier-shaped: a raw arXiv id or
				// similar. Take it as-is and let entry processing sort
				// out what it is.
				add(v)
			}
		}
	}
	walk(tree, false)
	return entries
}

// trimIdentifier strips trailing punctuation that text extraction tends to
// drag along with a DOI or URL.
func trimIdentifier(s string) string {
	return strings.TrimRight(s, ".,;)")
}

// ProcessPaperList parses a paper list file and resolves every entry in
// order.
func (p *Pipeline) ProcessPaperList(ctx context.Context, path string) ([]types.ProcessingResult, error) {
	entries, err := ParsePaperListFile(path)
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("path", path).Int("entries", len(entries)).Msg("processing paper list")

	results := make([]types.ProcessingResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, p.ProcessEntry(ctx, entry))
	}
	return results, nil
}
