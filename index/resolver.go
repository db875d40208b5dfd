package index

import (
	"sync"

	"golang.org/x/sync/singleflight"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/cache"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

// Source provides the resource documents of one project root.
// Scan is called at most once per kind; implementations do not need to
// cache. Unparsable files are the caller's boundary concern and never show
// up here.
type Source interface {
	// ID identifies the project root; it scopes the memoized lookups.
	ID() string

	// Scan returns all parsed resources of the given kind, in discovery
	// order. Discovery order decides which duplicate wins.
	Scan(kind fhir.Kind) []*fhir.Resource
}

// queryKey memoizes one resolved lookup.
type queryKey struct {
	root      string
	kind      fhir.Kind
	canonical string
}

// Resolver answers "does resource kind K with identifier I exist under this
// root", "locate its file" and "which facts does it declare". Results are
// memoized; the per-kind index scan runs exactly once per project root no
// matter how many queries arrive concurrently.
type Resolver struct {
	source  Source
	metrics *dsflint.Metrics

	mu    sync.RWMutex
	kinds map[fhir.Kind]*kindIndex
	group singleflight.Group

	queries *cache.Store[queryKey, *Entry]
}

// NewResolver creates a resolver over the given source.
// The metrics collector may be nil.
func NewResolver(source Source, cacheSize int, metrics *dsflint.Metrics) *Resolver {
	return &Resolver{
		source:  source,
		metrics: metrics,
		kinds:   make(map[fhir.Kind]*kindIndex),
		queries: cache.New[queryKey, *Entry](cacheSize),
	}
}

// kindIndexFor returns the index for a kind, building it on first use.
// The build runs at most once per kind under contention.
func (r *Resolver) kindIndexFor(kind fhir.Kind) *kindIndex {
	r.mu.RLock()
	idx, ok := r.kinds[kind]
	r.mu.RUnlock()
	if ok {
		return idx
	}

	v, _, _ := r.group.Do(string(kind), func() (any, error) {
		// Re-check: a previous flight may have finished between the
		// read-lock release and the singleflight entry.
		r.mu.RLock()
		idx, ok := r.kinds[kind]
		r.mu.RUnlock()
		if ok {
			return idx, nil
		}

		built := buildKindIndex(r.source.Scan(kind))
		if r.metrics != nil {
			r.metrics.RecordIndexBuild()
		}

		r.mu.Lock()
		r.kinds[kind] = built
		r.mu.Unlock()
		return built, nil
	})
	return v.(*kindIndex)
}

// Resolve locates the entry for a canonical identifier of the given kind.
// Returns nil, false when no resource declares the identifier.
// Repeated calls for the same identifier return the identical entry.
func (r *Resolver) Resolve(kind fhir.Kind, c fhir.Canonical) (*Entry, bool) {
	key := queryKey{root: r.source.ID(), kind: kind, canonical: c.String()}

	if e, ok := r.queries.Get(key); ok {
		if r.metrics != nil {
			r.metrics.RecordCacheHit()
		}
		return e, e != nil
	}
	if r.metrics != nil {
		r.metrics.RecordCacheMiss()
	}

	e := r.queries.GetOrCompute(key, func() *Entry {
		idx := r.kindIndexFor(kind)
		entry, ok := idx.lookup(c)
		if !ok {
			return nil
		}
		return entry
	})
	return e, e != nil
}

// Exists reports whether a resource of the given kind declares the
// canonical identifier.
func (r *Resolver) Exists(kind fhir.Kind, c fhir.Canonical) bool {
	_, ok := r.Resolve(kind, c)
	return ok
}

// Locate returns the file of the first-discovered resource declaring the
// identifier, or "" when unknown.
func (r *Resolver) Locate(kind fhir.Kind, c fhir.Canonical) string {
	e, ok := r.Resolve(kind, c)
	if !ok {
		return ""
	}
	return e.Resource.File
}

// All returns every scanned resource of a kind in discovery order.
func (r *Resolver) All(kind fhir.Kind) []*fhir.Resource {
	return r.kindIndexFor(kind).all
}

// Duplicates returns all identifiers of a kind declared by more than one
// file; the condition stays inspectable upward and is never merged away.
func (r *Resolver) Duplicates(kind fhir.Kind) []*Entry {
	return r.kindIndexFor(kind).duplicates()
}
