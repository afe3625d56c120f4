// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders human-readable summaries of processing runs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

const topVenues = 10

// Generate renders a plain-text summary of a batch of results: state
// counts, success rate, the open-access distribution, and the most frequent
// venues. An empty batch produces a single fixed line.
func Generate(results []types.ProcessingResult) string {
	if len(results) == 0 {
		return "No results to report.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processing Report\n")
	fmt.Fprintf(&b, "=================\n\n")
	fmt.Fprintf(&b, "Total entries: %d\n", len(results))

	states := newCounter()
	oaColors := newCounter()
	venues := newCounter()
	completed := 0

	for _, r := range results {
		states.add(string(r.State))
		if r.State == types.StateCompleted {
			completed++
		}
		if r.Metadata == nil {
			continue
		}
		if r.Metadata.OAStatus != "" {
			oaColors.add(string(r.Metadata.OAStatus))
		}
		if r.Metadata.Journal != "" {
			venues.add(r.Metadata.Journal)
		}
	}

	fmt.Fprintf(&b, "Success rate: %.1f%%\n\n", 100*float64(completed)/float64(len(results)))

	fmt.Fprintf(&b, "By state:\n")
	for _, e := range states.sorted() {
		fmt.Fprintf(&b, "  %-20s %d\n", e.key, e.count)
	}

	if len(oaColors.order) > 0 {
		fmt.Fprintf(&b, "\nOpen access:\n")
		for _, e := range oaColors.sorted() {
			fmt.Fprintf(&b, "  %-20s %d\n", e.key, e.count)
		}
	}

	if len(venues.order) > 0 {
		fmt.Fprintf(&b, "\nTop venues:\n")
		for i, e := range venues.sorted() {
			if i >= topVenues {
				break
			}
			fmt.Fprintf(&b, "  %-40s %d\n", e.key, e.count)
		}
	}

	return b.String()
}

// counter tallies string keys, remembering first-encounter order so that
// equal counts sort deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type entry struct {
	key   string
	count int
}

// sorted returns entries by descending count; ties keep first-encounter
// order.
func (c *counter) sorted() []entry {
	entries := make([]entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, entry{key, c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}
