// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// unpaywallAPIBase is the Unpaywall DOI endpoint. Declared as a var so
// tests can substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2"

// UnpaywallClient queries the Unpaywall open-access index. Unpaywall is the
// definitive OA source in the enrichment chain; it requires a contact email
// on every request.
type UnpaywallClient struct {
	Gateway *gateway.Client
	Email   string
}

// OAInfo is the open-access verdict for one DOI.
type OAInfo struct {
	Status  types.OAColor
	URL     string
	License string
}

// Check looks up the OA status for a DOI. Without a contact email it
// returns (nil, nil) so the caller falls through to the next source; unknown
// DOIs and transport failures return an error for the same fallthrough.
func (c *UnpaywallClient) Check(ctx context.Context, doi string) (*OAInfo, error) {
	if c.Email == "" {
		return nil, nil
	}
	params := url.Values{"email": {c.Email}}

	var resp unpaywallResponse
	if err := c.Gateway.GetJSON(ctx, unpaywallAPIBase+"/"+url.PathEscape(doi), params, &resp); err != nil {
		return nil, fmt.Errorf("Unpaywall check: %w", err)
	}
	info := oaInfo(resp)
	return &info, nil
}

// oaInfo maps an Unpaywall response to the fixed OA enumeration. Closed
// works carry no location; for open works the direct PDF URL is preferred
// over the landing page.
func oaInfo(resp unpaywallResponse) OAInfo {
	if !resp.IsOA {
		return OAInfo{Status: types.OAClosed}
	}

	info := OAInfo{Status: types.ParseOAColor(resp.OAStatus)}
	if best := resp.BestOALocation; best != nil {
		if best.URLForPDF != "" {
			info.URL = best.URLForPDF
		} else {
			info.URL = best.URL
		}
		info.License = best.License
	}
	return info
}

// Unpaywall API JSON structures.
type unpaywallResponse struct {
	IsOA           bool               `json:"is_oa"`
	OAStatus       string             `json:"oa_status"`
	BestOALocation *unpaywallLocation `json:"best_oa_location"`
}

type unpaywallLocation struct {
	URL       string `json:"url"`
	URLForPDF string `json:"url_for_pdf"`
	License   string `json:"license"`
}
