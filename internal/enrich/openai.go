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

// openAIAPIURL is the chat completions endpoint. Package-level var for test
// substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIExtractor calls the OpenAI chat completions API for metadata
// extraction.
type OpenAIExtractor struct {
	APIKey string
	Model  string
	Client *http.Client
	Log    zerolog.Logger
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Extract sends one completion request and parses the reply. Provider
// failures surface as (nil, nil) after a logged warning.
func (e *OpenAIExtractor) Extract(ctx context.Context, content string, weak WeakFields) (*types.PaperMetadata, error) {
	prompt, err := buildPrompt(content, weak)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(openAIRequest{
		Model:       e.Model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding OpenAI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		e.Log.Warn().Err(err).Msg("OpenAI extraction failed")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.Log.Warn().Int("status", resp.StatusCode).Msg("OpenAI extraction failed")
		return nil, nil
	}

	var or openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil || len(or.Choices) == 0 {
		e.Log.Warn().Msg("parsing OpenAI response failed")
		return nil, nil
	}

	return parseResponse(or.Choices[0].Message.Content, weak), nil
}
