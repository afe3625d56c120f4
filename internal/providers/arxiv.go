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

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivAbsPattern matches canonical arXiv abstract URLs and captures the ID.
var arxivAbsPattern = regexp.MustCompile(`arxiv\.org/abs/(\S+)`)

// ArxivClient queries the arXiv API. Preprints are open by construction, so
// every normalized record carries a green OA status and a PDF location.
type ArxivClient struct {
	Gateway *gateway.Client
}

// Name returns the provider identifier.
func (c *ArxivClient) Name() string { return "arxiv" }

// Search queries the arXiv API sorted by relevance.
func (c *ArxivClient) Search(ctx context.Context, query string, maxResults int) ([]types.PaperMetadata, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	var feed arxivFeed
	if err := c.Gateway.GetXML(ctx, arxivAPIBase, params, &feed); err != nil {
		return nil, fmt.Errorf("arXiv search: %w", err)
	}

	results := make([]types.PaperMetadata, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		results = append(results, entryToMetadata(entry))
	}
	return results, nil
}

// entryToMetadata normalizes one Atom entry. The arXiv ID is parsed from the
// entry's canonical URL and the OA location is the PDF variant of that URL.
func entryToMetadata(entry arxivEntry) types.PaperMetadata {
	m := types.PaperMetadata{
		Title:    strings.Join(strings.Fields(entry.Title), " "),
		Abstract: strings.TrimSpace(entry.Summary),
		OAStatus: types.OAGreen,
	}
	if m.Title == "" {
		m.Title = "Unknown"
	}

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	idURL := strings.TrimSpace(entry.ID)
	m.ArxivID = ExtractArxivID(idURL)
	if idURL != "" {
		m.OAURL = strings.Replace(idURL, "/abs/", "/pdf/", 1)
	}

	// Published dates are RFC 3339; the year is the first 4 characters.
	if len(entry.Published) >= 4 {
		if year, err := strconv.Atoi(entry.Published[:4]); err == nil {
			m.PublicationYear = year
		}
	}
	return m
}

// ExtractArxivID pulls the arXiv ID from an abstract URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func ExtractArxivID(absURL string) string {
	m := arxivAbsPattern.FindStringSubmatch(absURL)
	if m == nil {
		return ""
	}
	id := m[1]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
