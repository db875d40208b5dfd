// Package index provides the cross-reference resolver over a plugin's
// resource documents. Identifier lookups are served from a lazily built
// per-kind index and memoized, because the same lookup repeats thousands of
// times while validating a project's process elements.
package index

import (
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

// Entry is one indexed resource. When several files declare the same
// canonical identifier the first discovered file wins; the rest stay
// inspectable as duplicates and are never silently merged.
type Entry struct {
	// Resource is the first-discovered resource for the identifier.
	Resource *fhir.Resource

	// Duplicates holds later files declaring the same identifier.
	Duplicates []*fhir.Resource
}

// kindIndex maps identifiers of one resource kind to entries.
// Built by a single scan on first query for the kind.
type kindIndex struct {
	// byURL maps the bare canonical URL to its first-discovered entry,
	// serving version-insensitive lookups.
	byURL map[string]*Entry

	// byCanonical maps the full canonical form ("url|version", bare url
	// for unversioned resources) to its entry for exact matches. Two
	// files sharing a url under different versions are distinct
	// canonicals, not duplicates.
	byCanonical map[string]*Entry

	// all holds every scanned resource of the kind in discovery order.
	all []*fhir.Resource
}

// buildKindIndex indexes the given resources of one kind.
func buildKindIndex(resources []*fhir.Resource) *kindIndex {
	idx := &kindIndex{
		byURL:       make(map[string]*Entry, len(resources)),
		byCanonical: make(map[string]*Entry, len(resources)),
		all:         resources,
	}

	for _, r := range resources {
		if r.URL == "" {
			continue
		}

		key := r.Canonical().String()
		if existing, ok := idx.byCanonical[key]; ok {
			existing.Duplicates = append(existing.Duplicates, r)
			continue
		}
		e := &Entry{Resource: r}
		idx.byCanonical[key] = e

		if _, ok := idx.byURL[r.URL]; !ok {
			idx.byURL[r.URL] = e
		}
	}

	return idx
}

// lookup resolves a canonical against the index.
// Unversioned canonicals match any version; versioned ones match exactly.
func (idx *kindIndex) lookup(c fhir.Canonical) (*Entry, bool) {
	if c.AnyVersion() {
		e, ok := idx.byURL[c.URL]
		return e, ok
	}
	e, ok := idx.byCanonical[c.String()]
	return e, ok
}

// duplicates returns all entries with more than one declaring file.
func (idx *kindIndex) duplicates() []*Entry {
	var out []*Entry
	for _, e := range idx.byCanonical {
		if len(e.Duplicates) > 0 {
			out = append(out, e)
		}
	}
	return out
}
