// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers implements one adapter per scholarly metadata source:
// arXiv, Crossref, Unpaywall, OpenAlex, and CORE. Each adapter translates
// its provider's native response shape into types.PaperMetadata and
// tolerates malformed payloads by returning empty results with a logged
// warning; no provider failure is ever fatal to a pipeline run.
package providers

import (
	"context"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

// Searcher is a provider that supports free-text search. Results arrive in
// provider relevance order, already normalized.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.PaperMetadata, error)
}
