// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

// OllamaExtractor calls a local Ollama server for metadata extraction.
type OllamaExtractor struct {
	BaseURL string
	Model   string
	Client  *http.Client
	Log     zerolog.Logger
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Extract sends one generation request and parses the reply. Any provider
// failure is logged as a warning and surfaces as (nil, nil) so the caller
// keeps its weak record.
func (e *OllamaExtractor) Extract(ctx context.Context, content string, weak WeakFields) (*types.PaperMetadata, error) {
	prompt, err := buildPrompt(content, weak)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(ollamaRequest{
		Model:   e.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.1},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding Ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating Ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		e.Log.Warn().Err(err).Msg("Ollama extraction failed")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.Log.Warn().Int("status", resp.StatusCode).Msg("Ollama extraction failed")
		return nil, nil
	}

	var or ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		e.Log.Warn().Err(err).Msg("parsing Ollama response failed")
		return nil, nil
	}

	m := parseResponse(or.Response, weak)
	if m == nil {
		e.Log.Warn().Msg("Ollama returned unparseable metadata JSON")
	}
	return m, nil
}
