// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich provides the optional LLM metadata extractor. Given raw
// page text and weakly-populated fields, an Extractor may return a
// better-populated record or nothing; it never blocks the pipeline when
// absent or failing.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

// Extractor is the enrichment capability. Extract returns (nil, nil) when
// the provider produced nothing better than the weak fields; a nil
// Extractor is a valid runtime state meaning enrichment is disabled.
type Extractor interface {
	Extract(ctx context.Context, content string, weak WeakFields) (*types.PaperMetadata, error)
}

// WeakFields are the best-known values before enrichment. They seed the
// prompt and backfill any field the model omits.
type WeakFields struct {
	Title    string
	Authors  []string
	DOI      string
	Abstract string
}

// New selects an Extractor implementation from configuration. A disabled
// config returns (nil, nil).
func New(cfg types.EnrichConfig, log zerolog.Logger) (Extractor, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Provider {
	case "ollama":
		return &OllamaExtractor{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
			Client:  &http.Client{Timeout: cfg.OllamaTimeout},
			Log:     log,
		}, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai_api_key is required for the openai provider")
		}
		return &OpenAIExtractor{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Client: &http.Client{Timeout: cfg.OllamaTimeout},
			Log:    log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm_provider %q", cfg.Provider)
	}
}

// maxPromptContent bounds the raw text embedded in the prompt.
const maxPromptContent = 3000

// extractionPromptTmpl instructs the model to return a single JSON object
// with the canonical metadata fields.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Extract scholarly paper metadata from the following content.

Title: {{.Title}}
Authors: {{.Authors}}
DOI: {{.DOI}}
Abstract: {{.Abstract}}

Content (truncated): {{.Content}}

Return ONLY a JSON object:
{"title": "...", "authors": ["..."], "doi": "...", "arxiv_id": null, "publication_year": 2023, "journal": "...", "abstract": "...", "keywords": ["..."]}`))

// buildPrompt renders the extraction prompt for one record.
func buildPrompt(content string, weak WeakFields) (string, error) {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}
	var b bytes.Buffer
	err := extractionPromptTmpl.Execute(&b, struct {
		Title, Authors, DOI, Abstract, Content string
	}{
		Title:    weak.Title,
		Authors:  strings.Join(weak.Authors, ", "),
		DOI:      weak.DOI,
		Abstract: weak.Abstract,
		Content:  content,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return b.String(), nil
}

// llmMetadata is the JSON shape the prompt asks for.
type llmMetadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	DOI             string   `json:"doi"`
	ArxivID         string   `json:"arxiv_id"`
	PublicationYear int      `json:"publication_year"`
	Journal         string   `json:"journal"`
	Abstract        string   `json:"abstract"`
	Keywords        []string `json:"keywords"`
}

// cleanJSONResponse strips markdown fences and surrounding whitespace from
// model output.
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+len("```"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}
	return strings.TrimSpace(text)
}

// parseResponse decodes model output into a record, backfilling missing
// fields from the weak values. Unparseable output yields nil.
func parseResponse(raw string, weak WeakFields) *types.PaperMetadata {
	var d llmMetadata
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &d); err != nil {
		return nil
	}

	m := &types.PaperMetadata{
		Title:           d.Title,
		Authors:         d.Authors,
		DOI:             strings.ToLower(d.DOI),
		ArxivID:         d.ArxivID,
		PublicationYear: d.PublicationYear,
		Journal:         d.Journal,
		Abstract:        d.Abstract,
		Keywords:        d.Keywords,
	}
	if m.Title == "" {
		m.Title = weak.Title
	}
	if len(m.Authors) == 0 {
		m.Authors = weak.Authors
	}
	if m.DOI == "" {
		m.DOI = strings.ToLower(weak.DOI)
	}
	if m.Abstract == "" {
		m.Abstract = weak.Abstract
	}
	return m
}
