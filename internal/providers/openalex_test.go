// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

func TestOpenAlexToMetadata(t *testing.T) {
	work := openAlexWork{
		Title:           "Attention Is All You Need",
		DOI:             "https://doi.org/10.5555/3295222.3295349",
		PublicationYear: 2017,
		Authorships: []openAlexAuthorship{
			{Author: openAlexAuthor{DisplayName: "Ashish Vaswani"}},
			{Author: openAlexAuthor{DisplayName: ""}},
		},
		PrimaryLocation: openAlexLocation{Source: openAlexSource{DisplayName: "NeurIPS"}},
		OpenAccess:      openAlexOpenAccess{IsOA: true, OAURL: "https://arxiv.org/pdf/1706.03762"},
	}

	m := openAlexToMetadata(work)
	if m.DOI != "10.5555/3295222.3295349" {
		t.Errorf("DOI = %q, want resolver prefix stripped and lowercased", m.DOI)
	}
	if len(m.Authors) != 1 {
		t.Errorf("Authors = %v, want empty display names skipped", m.Authors)
	}
	if m.Journal != "NeurIPS" {
		t.Errorf("Journal = %q", m.Journal)
	}
	// Only a binary is_oa flag is available here, so the color defaults
	// conservatively to green.
	if m.OAStatus != types.OAGreen {
		t.Errorf("OAStatus = %q, want green", m.OAStatus)
	}
	if m.OAURL != "https://arxiv.org/pdf/1706.03762" {
		t.Errorf("OAURL = %q", m.OAURL)
	}
}

func TestOpenAlexToMetadata_Placeholders(t *testing.T) {
	m := openAlexToMetadata(openAlexWork{})
	if m.Title != "Unknown" {
		t.Errorf("Title = %q, want placeholder for absent title", m.Title)
	}
	if m.OAStatus != "" || m.OAURL != "" {
		t.Errorf("closed work should carry no OA fields, got %q %q", m.OAStatus, m.OAURL)
	}
}

func TestOpenAlexSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "transformers" {
			t.Errorf("search = %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("per_page = %q", got)
		}
		w.Write([]byte(`{"results": [
			{"title": "Paper A", "doi": "https://doi.org/10.1/a", "publication_year": 2020,
			 "open_access": {"is_oa": false}},
			{"title": "Paper B", "open_access": {"is_oa": true, "oa_url": "https://repo.example.org/b.pdf"}}
		]}`))
	}))
	defer ts.Close()

	orig := openAlexAPIBase
	openAlexAPIBase = ts.URL
	defer func() { openAlexAPIBase = orig }()

	c := &OpenAlexClient{Gateway: newTestGateway()}
	results, err := c.Search(context.Background(), "transformers", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].OAStatus != "" {
		t.Errorf("closed result OAStatus = %q, want empty", results[0].OAStatus)
	}
	if results[1].OAStatus != types.OAGreen {
		t.Errorf("open result OAStatus = %q, want green", results[1].OAStatus)
	}
}

func TestLookupOA(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"open_access": {"is_oa": true, "oa_url": "https://repo.example.org/x.pdf"}}`))
	}))
	defer ts.Close()

	orig := openAlexAPIBase
	openAlexAPIBase = ts.URL
	defer func() { openAlexAPIBase = orig }()

	c := &OpenAlexClient{Gateway: newTestGateway()}
	oa, err := c.LookupOA(context.Background(), "10.1000/demo")
	if err != nil {
		t.Fatalf("LookupOA() error = %v", err)
	}
	if oa == nil || !oa.IsOA || oa.URL != "https://repo.example.org/x.pdf" {
		t.Fatalf("LookupOA() = %+v", oa)
	}
}

func TestLookupOA_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	orig := openAlexAPIBase
	openAlexAPIBase = ts.URL
	defer func() { openAlexAPIBase = orig }()

	c := &OpenAlexClient{Gateway: newTestGateway()}
	oa, err := c.LookupOA(context.Background(), "10.9999/missing")
	if err != nil || oa != nil {
		t.Fatalf("LookupOA() = (%+v, %v), want (nil, nil)", oa, err)
	}
}
