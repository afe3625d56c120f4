// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

func TestOAInfo(t *testing.T) {
	tests := []struct {
		name string
		resp unpaywallResponse
		want OAInfo
	}{
		{
			name: "closed work carries no location",
			resp: unpaywallResponse{IsOA: false},
			want: OAInfo{Status: types.OAClosed},
		},
		{
			name: "gold with pdf preferred over landing page",
			resp: unpaywallResponse{
				IsOA:     true,
				OAStatus: "gold",
				BestOALocation: &unpaywallLocation{
					URL:       "https://journal.example.org/article/1",
					URLForPDF: "https://journal.example.org/article/1.pdf",
					License:   "cc-by",
				},
			},
			want: OAInfo{Status: types.OAGold, URL: "https://journal.example.org/article/1.pdf", License: "cc-by"},
		},
		{
			name: "landing page when no pdf url",
			resp: unpaywallResponse{
				IsOA:           true,
				OAStatus:       "hybrid",
				BestOALocation: &unpaywallLocation{URL: "https://journal.example.org/article/2"},
			},
			want: OAInfo{Status: types.OAHybrid, URL: "https://journal.example.org/article/2"},
		},
		{
			name: "unrecognized color maps to unknown",
			resp: unpaywallResponse{IsOA: true, OAStatus: "diamond"},
			want: OAInfo{Status: types.OAUnknown},
		},
		{
			name: "open with no best location",
			resp: unpaywallResponse{IsOA: true, OAStatus: "green"},
			want: OAInfo{Status: types.OAGreen},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oaInfo(tt.resp); got != tt.want {
				t.Errorf("oaInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheck_RequiresEmail(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer ts.Close()

	orig := unpaywallAPIBase
	unpaywallAPIBase = ts.URL
	defer func() { unpaywallAPIBase = orig }()

	c := &UnpaywallClient{Gateway: newTestGateway()}
	info, err := c.Check(context.Background(), "10.1000/demo")
	if err != nil || info != nil {
		t.Fatalf("Check() = (%+v, %v), want (nil, nil) without email", info, err)
	}
	if called {
		t.Fatal("Unpaywall was called without a contact email")
	}
}

func TestCheck_PassesEmail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "ops@example.org" {
			t.Errorf("email = %q", got)
		}
		w.Write([]byte(`{"is_oa": true, "oa_status": "bronze",
			"best_oa_location": {"url": "https://publisher.example.org/x"}}`))
	}))
	defer ts.Close()

	orig := unpaywallAPIBase
	unpaywallAPIBase = ts.URL
	defer func() { unpaywallAPIBase = orig }()

	c := &UnpaywallClient{Gateway: newTestGateway(), Email: "ops@example.org"}
	info, err := c.Check(context.Background(), "10.1000/demo")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if info.Status != types.OABronze || info.URL != "https://publisher.example.org/x" {
		t.Fatalf("Check() = %+v", info)
	}
}
