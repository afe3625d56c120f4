// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexClient queries the OpenAlex citation index. Its OA fields are
// themselves derived from Unpaywall, which makes it the coarse fallback in
// the enrichment chain: it exposes only a binary is_oa flag and a location,
// no color granularity.
type OpenAlexClient struct {
	Gateway *gateway.Client

	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

// OpenAccess is the OA summary OpenAlex publishes on each work.
type OpenAccess struct {
	IsOA bool
	URL  string
}

// Name returns the provider identifier.
func (c *OpenAlexClient) Name() string { return "openalex" }

// Search queries the OpenAlex works search.
func (c *OpenAlexClient) Search(ctx context.Context, query string, maxResults int) ([]types.PaperMetadata, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults > 200 {
		maxResults = 200
	}
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(maxResults)},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	var oar openAlexListResponse
	if err := c.Gateway.GetJSON(ctx, openAlexAPIBase, params, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex search: %w", err)
	}

	results := make([]types.PaperMetadata, 0, len(oar.Results))
	for _, work := range oar.Results {
		results = append(results, openAlexToMetadata(work))
	}
	return results, nil
}

// LookupOA fetches a work by DOI and returns its open-access summary.
// An unknown DOI or failed call returns (nil, nil).
func (c *OpenAlexClient) LookupOA(ctx context.Context, doi string) (*OpenAccess, error) {
	params := url.Values{}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	var work openAlexWork
	if err := c.Gateway.GetJSON(ctx, openAlexAPIBase+"/doi:"+url.PathEscape(doi), params, &work); err != nil {
		return nil, nil //nolint:nilerr
	}
	return &OpenAccess{IsOA: work.OpenAccess.IsOA, URL: work.OpenAccess.OAURL}, nil
}

// openAlexToMetadata normalizes one OpenAlex work. When the work is flagged
// open, the status defaults to green: OpenAlex does not expose Unpaywall's
// color classification, so green is a conservative guess, not a provider
// verdict.
func openAlexToMetadata(work openAlexWork) types.PaperMetadata {
	m := types.PaperMetadata{
		Title:           work.Title,
		PublicationYear: work.PublicationYear,
		Journal:         work.PrimaryLocation.Source.DisplayName,
	}
	if m.Title == "" {
		m.Title = "Unknown"
	}

	for _, authorship := range work.Authorships {
		if name := authorship.Author.DisplayName; name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	// OpenAlex renders DOIs as resolver URLs.
	if work.DOI != "" {
		m.DOI = strings.ToLower(strings.TrimPrefix(work.DOI, "https://doi.org/"))
	}

	if work.OpenAccess.IsOA {
		m.OAStatus = types.OAGreen
		m.OAURL = work.OpenAccess.OAURL
	}
	return m
}

// OpenAlex API JSON structures.
type openAlexListResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	Title           string               `json:"title"`
	DOI             string               `json:"doi"`
	PublicationYear int                  `json:"publication_year"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	PrimaryLocation openAlexLocation     `json:"primary_location"`
	OpenAccess      openAlexOpenAccess   `json:"open_access"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}
