// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// componentDOIPattern matches DOI suffixes that identify parts of a work
// (figures, tables, supplements) rather than the work itself.
var componentDOIPattern = regexp.MustCompile(`/fig-\d+|/table-\d+|/supp-\d+`)

// jatsTagPattern matches embedded JATS markup in Crossref abstracts.
var jatsTagPattern = regexp.MustCompile(`<[^>]+>`)

// CrossrefClient queries the Crossref citation index. It is the primary
// citation-graph provider and the only one used for direct DOI lookup.
type CrossrefClient struct {
	Gateway *gateway.Client

	// Email joins the Crossref polite pool when set.
	Email string
}

// Name returns the provider identifier.
func (c *CrossrefClient) Name() string { return "crossref" }

// Search queries Crossref sorted by relevance. Component records (figures,
// tables, supplements) are dropped during normalization.
func (c *CrossrefClient) Search(ctx context.Context, query string, maxResults int) ([]types.PaperMetadata, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	params := url.Values{
		"query": {query},
		"rows":  {strconv.Itoa(maxResults)},
		"sort":  {"relevance"},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	var cr crossrefListResponse
	if err := c.Gateway.GetJSON(ctx, crossrefAPIBase, params, &cr); err != nil {
		return nil, fmt.Errorf("Crossref search: %w", err)
	}

	var results []types.PaperMetadata
	for _, item := range cr.Message.Items {
		if m := workToMetadata(item); m != nil {
			results = append(results, *m)
		}
	}
	return results, nil
}

// LookupDOI fetches a single work by DOI. A missing DOI returns (nil, nil);
// only transport and decode failures return an error.
func (c *CrossrefClient) LookupDOI(ctx context.Context, doi string) (*types.PaperMetadata, error) {
	params := url.Values{}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	var cr crossrefItemResponse
	err := c.Gateway.GetJSON(ctx, crossrefAPIBase+"/"+url.PathEscape(doi), params, &cr)
	if err != nil {
		// Crossref answers 404 for unknown DOIs; the gateway surfaces
		// that as an error, which callers treat as "not found".
		return nil, nil //nolint:nilerr
	}
	return workToMetadata(cr.Message), nil
}

// workToMetadata normalizes one Crossref work. It returns nil for component
// records identified by their DOI suffix.
func workToMetadata(item crossrefWork) *types.PaperMetadata {
	doi := strings.ToLower(item.DOI)
	if componentDOIPattern.MatchString(doi) {
		return nil
	}

	m := &types.PaperMetadata{Title: "Unknown", DOI: doi}
	if len(item.Title) > 0 && item.Title[0] != "" {
		m.Title = item.Title[0]
	}

	for _, a := range item.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	// Year priority: print date, online date, then deposit creation date.
	for _, d := range []crossrefDate{item.PublishedPrint, item.PublishedOnline, item.Created} {
		if y := d.year(); y != 0 {
			m.PublicationYear = y
			break
		}
	}

	if len(item.ContainerTitle) > 0 {
		m.Journal = item.ContainerTitle[0]
	}
	if item.Abstract != "" {
		m.Abstract = strings.TrimSpace(jatsTagPattern.ReplaceAllString(item.Abstract, ""))
	}
	return m
}

// Crossref API JSON structures.
type crossrefListResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefItemResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	DOI             string           `json:"DOI"`
	Title           []string         `json:"title"`
	ContainerTitle  []string         `json:"container-title"`
	Abstract        string           `json:"abstract"`
	Author          []crossrefAuthor `json:"author"`
	PublishedPrint  crossrefDate     `json:"published-print"`
	PublishedOnline crossrefDate     `json:"published-online"`
	Created         crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}
