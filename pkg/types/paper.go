// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-mentat pipeline.
package types

import (
	"strings"
	"unicode"
)

// OAColor classifies how a work is open access, following the Unpaywall
// color taxonomy. "closed" means not open; "unknown" covers unrecognized
// provider values.
type OAColor string

const (
	OAGold    OAColor = "gold"
	OAGreen   OAColor = "green"
	OAHybrid  OAColor = "hybrid"
	OABronze  OAColor = "bronze"
	OAClosed  OAColor = "closed"
	OAUnknown OAColor = "unknown"
)

// ParseOAColor maps a provider status string to an OAColor. Unrecognized
// values map to OAUnknown rather than failing, since providers add new
// statuses without notice.
func ParseOAColor(s string) OAColor {
	switch c := OAColor(strings.ToLower(s)); c {
	case OAGold, OAGreen, OAHybrid, OABronze, OAClosed:
		return c
	default:
		return OAUnknown
	}
}

// PaperMetadata is the canonical record for one scholarly work, normalized
// from whichever provider supplied it.
type PaperMetadata struct {
	// Title is required; adapters fall back to a placeholder rather than
	// producing an empty title.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// DOI is the bare identifier, lowercase, without a resolver prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv identifier (e.g. "2301.07041") when known.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// PublicationYear is the 4-digit publication year, 0 if unknown.
	PublicationYear int `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`

	// Journal is the venue or container title.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// OAStatus is empty until open-access verification has run.
	// OAClosed implies OAURL is empty.
	OAStatus OAColor `json:"oa_status,omitempty" yaml:"oa_status,omitempty"`

	// OAURL is the retrievable full-text location, when one exists.
	OAURL string `json:"oa_url,omitempty" yaml:"oa_url,omitempty"`

	// License is the license identifier reported by the OA source.
	License string `json:"license,omitempty" yaml:"license,omitempty"`
}

// DedupKey derives the identity key used to merge duplicate records across
// providers: DOI, else arXiv ID, else the normalized title.
func (m *PaperMetadata) DedupKey() string {
	if m.DOI != "" {
		return "doi:" + strings.ToLower(m.DOI)
	}
	if m.ArxivID != "" {
		return "arxiv:" + m.ArxivID
	}
	return "title:" + NormalizeTitle(m.Title)
}

// NormalizeTitle returns a lowercased, punctuation-stripped version of the
// title with whitespace collapsed, for identity comparison across providers.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
