// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWorkToMetadata(t *testing.T) {
	item := crossrefWork{
		DOI:            "10.1016/J.OREGEOREV.2018.12.018",
		Title:          []string{"Machine learning for mineral prospectivity", "Alternate title"},
		ContainerTitle: []string{"Ore Geology Reviews"},
		Abstract:       `<jats:p>We apply <jats:italic>random forests</jats:italic> to targeting.</jats:p>`,
		Author: []crossrefAuthor{
			{Given: "Emily", Family: "Carranza"},
			{Given: "", Family: ""},
			{Given: "", Family: "Zuo"},
		},
		PublishedPrint: crossrefDate{DateParts: [][]int{{2019, 3}}},
		Created:        crossrefDate{DateParts: [][]int{{2018, 12, 20}}},
	}

	m := workToMetadata(item)
	if m == nil {
		t.Fatal("workToMetadata() = nil, want record")
	}
	if m.Title != "Machine learning for mineral prospectivity" {
		t.Errorf("Title = %q, want first title variant", m.Title)
	}
	if m.DOI != "10.1016/j.oregeorev.2018.12.018" {
		t.Errorf("DOI = %q, want lowercase", m.DOI)
	}
	if len(m.Authors) != 2 || m.Authors[0] != "Emily Carranza" || m.Authors[1] != "Zuo" {
		t.Errorf("Authors = %v, want empty names skipped", m.Authors)
	}
	if m.PublicationYear != 2019 {
		t.Errorf("PublicationYear = %d, want print year 2019 over created 2018", m.PublicationYear)
	}
	if m.Journal != "Ore Geology Reviews" {
		t.Errorf("Journal = %q", m.Journal)
	}
	if m.Abstract != "We apply random forests to targeting." {
		t.Errorf("Abstract = %q, want JATS tags stripped", m.Abstract)
	}
}

func TestWorkToMetadata_YearFallback(t *testing.T) {
	tests := []struct {
		name string
		item crossrefWork
		want int
	}{
		{
			"online when no print",
			crossrefWork{DOI: "10.1/x", PublishedOnline: crossrefDate{DateParts: [][]int{{2021}}}, Created: crossrefDate{DateParts: [][]int{{2020}}}},
			2021,
		},
		{
			"created when nothing else",
			crossrefWork{DOI: "10.1/x", Created: crossrefDate{DateParts: [][]int{{2020, 6, 1}}}},
			2020,
		},
		{
			"no dates at all",
			crossrefWork{DOI: "10.1/x"},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := workToMetadata(tt.item)
			if m.PublicationYear != tt.want {
				t.Errorf("PublicationYear = %d, want %d", m.PublicationYear, tt.want)
			}
		})
	}
}

// Component DOIs (figures, tables, supplements) are not articles and
// normalize to absent.
func TestWorkToMetadata_ComponentDOIs(t *testing.T) {
	tests := []struct {
		doi  string
		want bool // want a record
	}{
		{"10.7717/peerj.4375/fig-3", false},
		{"10.7717/peerj.4375/table-2", false},
		{"10.7717/peerj.4375/supp-1", false},
		{"10.7717/peerj.4375", true},
	}
	for _, tt := range tests {
		m := workToMetadata(crossrefWork{DOI: tt.doi, Title: []string{"T"}})
		if (m != nil) != tt.want {
			t.Errorf("workToMetadata(doi=%q) present = %v, want %v", tt.doi, m != nil, tt.want)
		}
	}
}

func TestCrossrefSearch_SkipsComponents(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mailto"); got != "ops@example.org" {
			t.Errorf("mailto = %q", got)
		}
		w.Write([]byte(`{"message": {"items": [
			{"DOI": "10.7717/peerj.4375", "title": ["A real article"]},
			{"DOI": "10.7717/peerj.4375/fig-3", "title": ["Figure 3"]}
		]}}`))
	}))
	defer ts.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = orig }()

	c := &CrossrefClient{Gateway: newTestGateway(), Email: "ops@example.org"}
	results, err := c.Search(context.Background(), "peerj", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != "A real article" {
		t.Fatalf("results = %+v, want only the article", results)
	}
}

func TestLookupDOI_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = orig }()

	c := &CrossrefClient{Gateway: newTestGateway()}
	m, err := c.LookupDOI(context.Background(), "10.9999/does-not-exist")
	if err != nil {
		t.Fatalf("LookupDOI() error = %v, want nil", err)
	}
	if m != nil {
		t.Fatalf("LookupDOI() = %+v, want nil for unknown DOI", m)
	}
}

func TestLookupDOI_Found(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {"DOI": "10.1000/demo", "title": ["Demo"],
			"created": {"date-parts": [[2022, 1, 1]]}}}`))
	}))
	defer ts.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = orig }()

	c := &CrossrefClient{Gateway: newTestGateway()}
	m, err := c.LookupDOI(context.Background(), "10.1000/demo")
	if err != nil {
		t.Fatalf("LookupDOI() error = %v", err)
	}
	if m == nil || m.Title != "Demo" || m.PublicationYear != 2022 {
		t.Fatalf("LookupDOI() = %+v", m)
	}
}
