// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates multi-source resolution: it fans queries out
// to the provider adapters, merges and deduplicates their results, drives
// the open-access enrichment fallback chain, and assigns each candidate a
// pipeline state. Providers are queried sequentially so the shared gateway
// throttle keeps one consistent view of time since the last call.
package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-mentat/internal/enrich"
	"github.com/pdiddy/paper-mentat/internal/gateway"
	"github.com/pdiddy/paper-mentat/internal/providers"
	"github.com/pdiddy/paper-mentat/pkg/types"
)

// doiPattern matches DOI-shaped substrings: "10.1016/j.oregeorev.2018.12.018".
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s]+`)

// minPerProvider is the floor on the per-provider result budget during
// ad-hoc search.
const minPerProvider = 5

// citationIndex is the slice of Crossref the pipeline uses: free-text
// search plus DOI lookup.
type citationIndex interface {
	providers.Searcher
	LookupDOI(ctx context.Context, doi string) (*types.PaperMetadata, error)
}

// oaIndex is the slice of Unpaywall the pipeline uses.
type oaIndex interface {
	Check(ctx context.Context, doi string) (*providers.OAInfo, error)
}

// secondaryIndex is the slice of OpenAlex the pipeline uses: free-text
// search plus the coarse per-DOI OA lookup.
type secondaryIndex interface {
	providers.Searcher
	LookupOA(ctx context.Context, doi string) (*providers.OpenAccess, error)
}

// Pipeline is the resolution orchestrator.
type Pipeline struct {
	cfg types.PipelineConfig
	log zerolog.Logger
	gw  *gateway.Client

	arxiv     providers.Searcher
	crossref  citationIndex
	unpaywall oaIndex
	openalex  secondaryIndex
	core      providers.Searcher

	extractor enrich.Extractor
}

// New builds a pipeline with one shared gateway for all providers and the
// configured (possibly nil) enrichment extractor.
func New(cfg types.PipelineConfig, log zerolog.Logger) (*Pipeline, error) {
	gw := gateway.New(cfg.Gateway, log)

	extractor, err := enrich.New(cfg.Enrich, log)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		log:       log,
		gw:        gw,
		arxiv:     &providers.ArxivClient{Gateway: gw},
		crossref:  &providers.CrossrefClient{Gateway: gw, Email: cfg.Search.ContactEmail},
		unpaywall: &providers.UnpaywallClient{Gateway: gw, Email: cfg.Search.ContactEmail},
		openalex:  &providers.OpenAlexClient{Gateway: gw, Email: cfg.Search.ContactEmail},
		core:      &providers.COREClient{Gateway: gw, APIKey: cfg.Search.COREAPIKey, Log: log},
		extractor: extractor,
	}, nil
}

// Gateway exposes the shared HTTP gateway, so downloads ride the same
// throttle as provider calls.
func (p *Pipeline) Gateway() *gateway.Client {
	return p.gw
}

// SearchAdHoc fans a free-text query out to arXiv, Crossref, and OpenAlex in
// that fixed order, deduplicates across them (earlier providers win), runs
// OA enrichment on records that need it, and truncates to maxResults.
func (p *Pipeline) SearchAdHoc(ctx context.Context, query string, maxResults int) []types.ProcessingResult {
	if maxResults <= 0 {
		maxResults = p.cfg.Search.MaxResults
	}
	perProvider := maxResults / 3
	if perProvider < minPerProvider {
		perProvider = minPerProvider
	}

	p.log.Info().Str("query", query).Int("max_results", maxResults).Msg("ad-hoc search")

	var results []types.ProcessingResult
	seen := make(map[string]bool)

	// arXiv items arrive already OA-resolved: preprints are green with a
	// PDF location by construction.
	metas, err := p.arxiv.Search(ctx, query, perProvider)
	if err != nil {
		p.log.Warn().Err(err).Msg("arXiv search contributed nothing")
	}
	for _, m := range metas {
		if !markSeen(seen, &m) {
			continue
		}
		url := ""
		if m.ArxivID != "" {
			url = "https://arxiv.org/abs/" + m.ArxivID
		}
		results = append(results, types.ProcessingResult{
			URL:      url,
			State:    types.StateCompleted,
			Metadata: cloned(m),
		})
	}

	metas, err = p.crossref.Search(ctx, query, perProvider)
	if err != nil {
		p.log.Warn().Err(err).Msg("Crossref search contributed nothing")
	}
	results = p.appendEnriched(ctx, results, seen, metas)

	metas, err = p.openalex.Search(ctx, query, perProvider)
	if err != nil {
		p.log.Warn().Err(err).Msg("OpenAlex search contributed nothing")
	}
	results = p.appendEnriched(ctx, results, seen, metas)

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// appendEnriched normalizes one provider's batch into results: dedup against
// earlier providers, OA-enrich records that still lack a location, and
// assign completed or metadata_extracted depending on whether a location
// was found.
func (p *Pipeline) appendEnriched(ctx context.Context, results []types.ProcessingResult, seen map[string]bool, metas []types.PaperMetadata) []types.ProcessingResult {
	for _, m := range metas {
		if !markSeen(seen, &m) {
			continue
		}
		if m.OAURL == "" && m.DOI != "" {
			p.EnrichOA(ctx, &m)
		}
		url := ""
		if m.DOI != "" {
			url = "https://doi.org/" + m.DOI
		}
		results = append(results, types.ProcessingResult{
			URL:      url,
			State:    stateForOA(&m),
			Metadata: cloned(m),
		})
	}
	return results
}

// SearchByTopics runs one ad-hoc search per topic and concatenates the
// results.
func (p *Pipeline) SearchByTopics(ctx context.Context, topics []string, maxPerTopic int) []types.ProcessingResult {
	var all []types.ProcessingResult
	for _, topic := range topics {
		p.log.Info().Str("topic", topic).Msg("topic search")
		all = append(all, p.SearchAdHoc(ctx, topic, maxPerTopic)...)
	}
	return all
}

// SearchFullText queries the CORE repository index. Without an API key it
// returns nothing. Results get the same OA treatment as other providers,
// though CORE records usually arrive with their own download location.
func (p *Pipeline) SearchFullText(ctx context.Context, query string, maxResults int) []types.ProcessingResult {
	if maxResults <= 0 {
		maxResults = p.cfg.Search.MaxResults
	}
	metas, err := p.core.Search(ctx, query, maxResults)
	if err != nil {
		p.log.Warn().Err(err).Msg("CORE search contributed nothing")
	}

	var results []types.ProcessingResult
	seen := make(map[string]bool)
	results = p.appendEnriched(ctx, results, seen, metas)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// EnrichOA resolves a record's open-access status through the fallback
// chain. Unpaywall is definitive when a contact email is configured; its
// verdict (including closed) is adopted as-is. Otherwise, or on an Unpaywall
// miss, OpenAlex's own derived OA fields serve as a coarse best-effort
// substitute: a binary is_oa flag defaulting to green.
//
// Records without a DOI are returned unchanged; no source can say anything
// about them.
func (p *Pipeline) EnrichOA(ctx context.Context, m *types.PaperMetadata) {
	if m.DOI == "" {
		return
	}

	info, err := p.unpaywall.Check(ctx, m.DOI)
	if err != nil {
		p.log.Warn().Str("doi", m.DOI).Err(err).Msg("Unpaywall check failed, falling back to OpenAlex")
	}
	if err == nil && info != nil {
		m.OAStatus = info.Status
		m.OAURL = info.URL
		m.License = info.License
		return
	}

	oa, err := p.openalex.LookupOA(ctx, m.DOI)
	if err != nil || oa == nil {
		return
	}
	if oa.IsOA {
		m.OAStatus = types.OAGreen
		m.OAURL = oa.URL
	}
}

// ProcessEntry resolves one identifier into a ProcessingResult. Entries
// with an http prefix take the URL path, everything else is treated as a
// DOI. Failures of any kind become a failed result; they never propagate to
// the caller.
func (p *Pipeline) ProcessEntry(ctx context.Context, entry string) types.ProcessingResult {
	start := time.Now()

	var result types.ProcessingResult
	if strings.HasPrefix(entry, "http") {
		result = p.processURL(ctx, entry)
	} else {
		result = p.processDOI(ctx, entry)
	}
	result.ProcessingTime = time.Since(start).Seconds()
	return result
}

// processDOI looks a DOI up in Crossref and runs OA enrichment.
func (p *Pipeline) processDOI(ctx context.Context, doi string) types.ProcessingResult {
	result := types.ProcessingResult{URL: "https://doi.org/" + doi}

	m, err := p.crossref.LookupDOI(ctx, doi)
	if err != nil {
		result.Fail(err.Error())
		return result
	}
	if m == nil {
		result.Fail("DOI not found in Crossref")
		return result
	}

	p.EnrichOA(ctx, m)
	result.Metadata = m
	result.State = stateForOA(m)
	return result
}

// processURL handles URL entries. arXiv abstract URLs synthesize a record
// locally without a network round-trip; URLs with an embedded DOI delegate
// to the DOI path; anything else gets a placeholder record, since the
// system does not scrape arbitrary pages.
func (p *Pipeline) processURL(ctx context.Context, url string) types.ProcessingResult {
	if id := providers.ExtractArxivID(url); id != "" {
		return types.ProcessingResult{
			URL:   url,
			State: types.StateCompleted,
			Metadata: &types.PaperMetadata{
				Title:    "arXiv:" + id,
				ArxivID:  id,
				OAStatus: types.OAGreen,
				OAURL:    strings.Replace(url, "/abs/", "/pdf/", 1),
			},
		}
	}

	if doi := doiPattern.FindString(url); doi != "" {
		result := p.processDOI(ctx, trimIdentifier(doi))
		result.URL = url
		return result
	}

	m := &types.PaperMetadata{Title: url}
	if p.extractor != nil {
		better, err := p.extractor.Extract(ctx, url, enrich.WeakFields{Title: url})
		if err == nil && better != nil {
			m = better
			if m.DOI != "" {
				p.EnrichOA(ctx, m)
			}
		}
	}
	return types.ProcessingResult{URL: url, State: stateForOA(m), Metadata: m}
}

// stateForOA maps a record's OA outcome to its pipeline state: a resolved
// location completes the record, otherwise metadata extraction is as far as
// it got.
func stateForOA(m *types.PaperMetadata) types.ProcessingState {
	if m.OAURL != "" {
		return types.StateCompleted
	}
	return types.StateMetadataExtracted
}

// markSeen records the metadata's dedup key, reporting whether this is the
// first sighting. Two records sharing a key are the same work; the first
// encountered, in provider priority order, is kept.
func markSeen(seen map[string]bool, m *types.PaperMetadata) bool {
	key := m.DedupKey()
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}

func cloned(m types.PaperMetadata) *types.PaperMetadata {
	c := m
	return &c
}
