package index

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

// stubSource serves fixed resources and counts scans per kind.
type stubSource struct {
	id        string
	resources map[fhir.Kind][]*fhir.Resource
	scans     atomic.Int32
}

func (s *stubSource) ID() string { return s.id }

func (s *stubSource) Scan(kind fhir.Kind) []*fhir.Resource {
	s.scans.Add(1)
	return s.resources[kind]
}

func newStubSource() *stubSource {
	return &stubSource{
		id: "project",
		resources: map[fhir.Kind][]*fhir.Resource{
			fhir.KindStructureDefinition: {
				{Kind: fhir.KindStructureDefinition, URL: "http://dsf.dev/fhir/StructureDefinition/task-ping", Version: "1.0", File: "sd/ping.xml"},
				{Kind: fhir.KindStructureDefinition, URL: "http://dsf.dev/fhir/StructureDefinition/task-pong", Version: "1.0", File: "sd/pong.xml"},
			},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(newStubSource(), 100, nil)

	e, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/task-ping"})
	if !ok {
		t.Fatal("bare URL should resolve version-insensitively")
	}
	if e.Resource.File != "sd/ping.xml" {
		t.Errorf("File = %s; want sd/ping.xml", e.Resource.File)
	}

	if _, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/task-ping", Version: "1.0"}); !ok {
		t.Error("exact versioned canonical should resolve")
	}
	if _, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/task-ping", Version: "9.9"}); ok {
		t.Error("wrong version must not resolve")
	}
	if _, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/unknown"}); ok {
		t.Error("unknown URL must not resolve")
	}
}

func TestResolver_RepeatedCallsIdentical(t *testing.T) {
	r := NewResolver(newStubSource(), 100, nil)
	c := fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/task-ping"}

	e1, ok1 := r.Resolve(fhir.KindStructureDefinition, c)
	e2, ok2 := r.Resolve(fhir.KindStructureDefinition, c)

	if !ok1 || !ok2 {
		t.Fatal("both calls should resolve")
	}
	if e1 != e2 {
		t.Error("repeated calls must return the identical entry")
	}
}

func TestResolver_ScanRunsOncePerKind(t *testing.T) {
	src := newStubSource()
	r := NewResolver(src, 1000, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				url := fmt.Sprintf("http://dsf.dev/fhir/StructureDefinition/q-%d-%d", i, j)
				r.Resolve(fhir.KindStructureDefinition, fhir.Canonical{URL: url})
			}
		}(i)
	}
	wg.Wait()

	if got := src.scans.Load(); got != 1 {
		t.Errorf("scan ran %d times; want exactly 1", got)
	}
}

func TestResolver_DuplicatesFirstWins(t *testing.T) {
	src := newStubSource()
	url := "http://dsf.dev/fhir/StructureDefinition/task-ping"
	src.resources[fhir.KindStructureDefinition] = append(
		src.resources[fhir.KindStructureDefinition],
		&fhir.Resource{Kind: fhir.KindStructureDefinition, URL: url, Version: "1.0", File: "sd/ping-copy.xml"},
	)

	r := NewResolver(src, 100, nil)

	e, ok := r.Resolve(fhir.KindStructureDefinition, fhir.Canonical{URL: url})
	if !ok {
		t.Fatal("duplicated URL should still resolve")
	}
	if e.Resource.File != "sd/ping.xml" {
		t.Errorf("resolved file = %s; first discovered should win", e.Resource.File)
	}

	dups := r.Duplicates(fhir.KindStructureDefinition)
	if len(dups) != 1 {
		t.Fatalf("Duplicates() = %d entries; want 1", len(dups))
	}
	if len(dups[0].Duplicates) != 1 || dups[0].Duplicates[0].File != "sd/ping-copy.xml" {
		t.Error("the later file should be recorded as the duplicate")
	}
}

func TestResolver_DistinctVersionsResolveExactly(t *testing.T) {
	src := newStubSource()
	url := "http://dsf.dev/fhir/StructureDefinition/task-x"
	src.resources[fhir.KindStructureDefinition] = append(
		src.resources[fhir.KindStructureDefinition],
		&fhir.Resource{Kind: fhir.KindStructureDefinition, URL: url, Version: "1.0.0", File: "sd/v1.xml"},
		&fhir.Resource{Kind: fhir.KindStructureDefinition, URL: url, Version: "2.0.0", File: "sd/v2.xml"},
	)

	r := NewResolver(src, 100, nil)

	e, ok := r.Resolve(fhir.KindStructureDefinition, fhir.Canonical{URL: url, Version: "2.0.0"})
	if !ok {
		t.Fatal("second version should resolve")
	}
	if e.Resource.File != "sd/v2.xml" || e.Resource.Version != "2.0.0" {
		t.Errorf("resolved %s version %s; exact canonicals must match exactly",
			e.Resource.File, e.Resource.Version)
	}

	e, ok = r.Resolve(fhir.KindStructureDefinition, fhir.Canonical{URL: url, Version: "1.0.0"})
	if !ok || e.Resource.File != "sd/v1.xml" {
		t.Error("first version should resolve to its own file")
	}

	e, ok = r.Resolve(fhir.KindStructureDefinition, fhir.Canonical{URL: url})
	if !ok || e.Resource.File != "sd/v1.xml" {
		t.Error("bare URL should resolve to the first-discovered version")
	}

	if dups := r.Duplicates(fhir.KindStructureDefinition); len(dups) != 0 {
		t.Errorf("distinct versioned canonicals reported as %d duplicates", len(dups))
	}
}

func TestResolver_VersionedQueryMissesUnversionedDeclaration(t *testing.T) {
	src := newStubSource()
	url := "http://dsf.dev/fhir/StructureDefinition/task-bare"
	src.resources[fhir.KindStructureDefinition] = append(
		src.resources[fhir.KindStructureDefinition],
		&fhir.Resource{Kind: fhir.KindStructureDefinition, URL: url, File: "sd/bare.xml"},
	)

	r := NewResolver(src, 100, nil)

	if _, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: url, Version: "1.0"}); ok {
		t.Error("versioned query must not match a versionless declaration")
	}
	if _, ok := r.Resolve(fhir.KindStructureDefinition,
		fhir.Canonical{URL: url}); !ok {
		t.Error("bare query should match the versionless declaration")
	}
}

func TestResolver_Locate(t *testing.T) {
	r := NewResolver(newStubSource(), 100, nil)

	if got := r.Locate(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://dsf.dev/fhir/StructureDefinition/task-pong"}); got != "sd/pong.xml" {
		t.Errorf("Locate = %s; want sd/pong.xml", got)
	}
	if got := r.Locate(fhir.KindStructureDefinition,
		fhir.Canonical{URL: "http://unknown"}); got != "" {
		t.Errorf("Locate(unknown) = %s; want empty", got)
	}
}
