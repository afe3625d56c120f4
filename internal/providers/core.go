// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// coreAPIBase is the CORE works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreAPIBase = "https://api.core.ac.uk/v3/search/works"

// COREClient queries the CORE full-text repository index. CORE requires an
// API key; without one the adapter contributes zero results instead of
// failing the run.
type COREClient struct {
	Gateway *gateway.Client
	APIKey  string
	Log     zerolog.Logger
}

// Name returns the provider identifier.
func (c *COREClient) Name() string { return "core" }

// Search queries CORE sorted by relevance. Multi-word queries are wrapped
// as a proximity phrase so results favor phrase-like matches over
// independent term hits.
func (c *COREClient) Search(ctx context.Context, query string, maxResults int) ([]types.PaperMetadata, error) {
	if c.APIKey == "" {
		c.Log.Warn().Msg("core_api_key not configured, skipping CORE search")
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{
		"q":     {proximityPhrase(query)},
		"limit": {strconv.Itoa(maxResults)},
		"sort":  {"relevance"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coreAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating CORE request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Gateway.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CORE search: %w", err)
	}
	defer resp.Body.Close()

	var cr coreResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CORE response: %w", err)
	}

	results := make([]types.PaperMetadata, 0, len(cr.Results))
	for _, item := range cr.Results {
		results = append(results, coreToMetadata(item))
	}
	return results, nil
}

// proximityPhrase wraps a multi-word query as a quoted phrase with slop 10
// (terms within 10 positions of each other). Queries that already carry
// quoting or field syntax pass through unchanged.
func proximityPhrase(query string) string {
	if !strings.Contains(query, " ") {
		return query
	}
	if strings.HasPrefix(query, `"`) || strings.Contains(query, ":") {
		return query
	}
	return fmt.Sprintf(`"%s"~10`, query)
}

// coreToMetadata normalizes one CORE work. CORE indexes repository copies,
// so a record with a retrievable location is green.
func coreToMetadata(item coreWork) types.PaperMetadata {
	m := types.PaperMetadata{
		Title:           item.Title,
		DOI:             strings.ToLower(item.DOI),
		PublicationYear: item.YearPublished,
		Journal:         item.Publisher,
		Abstract:        item.Abstract,
	}
	if m.Title == "" {
		m.Title = "Unknown"
	}

	for _, a := range item.Authors {
		if a.Name != "" {
			m.Authors = append(m.Authors, a.Name)
		}
	}

	dl := item.DownloadURL
	if dl == "" && len(item.SourceFulltextURLs) > 0 {
		dl = item.SourceFulltextURLs[0]
	}
	if dl != "" {
		m.OAStatus = types.OAGreen
		m.OAURL = dl
	}
	return m
}

// CORE API JSON structures.
type coreResponse struct {
	Results []coreWork `json:"results"`
}

type coreWork struct {
	Title              string       `json:"title"`
	DOI                string       `json:"doi"`
	YearPublished      int          `json:"yearPublished"`
	Publisher          string       `json:"publisher"`
	Abstract           string       `json:"abstract"`
	Authors            []coreAuthor `json:"authors"`
	DownloadURL        string       `json:"downloadUrl"`
	SourceFulltextURLs []string     `json:"sourceFulltextUrls"`
}

type coreAuthor struct {
	Name string `json:"name"`
}
