package engine

import (
	"io/fs"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

// resourcePatterns match the files a plugin ships its resources in.
var resourcePatterns = []string{"**/*.xml", "**/*.json"}

// processPattern matches the process definition files.
const processPattern = "**/*.bpmn"

// indexedKinds are the root element names accepted as resource documents.
// Files with other roots are not resources and are skipped. Every listed
// kind is indexed for cross-references and duplicate detection, whether or
// not a dedicated handler validates it.
var indexedKinds = []fhir.Kind{
	fhir.KindActivityDefinition,
	fhir.KindTask,
	fhir.KindStructureDefinition,
	fhir.KindValueSet,
	fhir.KindCodeSystem,
	fhir.KindQuestionnaire,
	fhir.KindLibrary,
	fhir.KindMeasure,
}

var resourceKinds = func() map[fhir.Kind]bool {
	m := make(map[fhir.Kind]bool, len(indexedKinds))
	for _, k := range indexedKinds {
		m[k] = true
	}
	return m
}()

// ParseFailure records a file that could not be parsed at all.
type ParseFailure struct {
	File string
	Err  error
}

// projectSource loads the resource documents of one project root. The scan
// over the tree runs once; per-kind queries filter the loaded set.
type projectSource struct {
	root string
	fsys fs.FS
	log  *zap.Logger

	once      sync.Once
	resources []*fhir.Resource
	failures  []ParseFailure
}

// newProjectSource creates a source over a filesystem rooted at the project.
func newProjectSource(root string, fsys fs.FS, log *zap.Logger) *projectSource {
	return &projectSource{root: root, fsys: fsys, log: log}
}

// ID implements index.Source.
func (s *projectSource) ID() string { return s.root }

// Scan implements index.Source, returning resources in discovery order.
func (s *projectSource) Scan(kind fhir.Kind) []*fhir.Resource {
	s.load()
	var out []*fhir.Resource
	for _, r := range s.resources {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns the files that failed to parse, after the first load.
func (s *projectSource) Failures() []ParseFailure {
	s.load()
	return s.failures
}

// Files returns all loaded resource files in discovery order.
func (s *projectSource) Files() []string {
	s.load()
	out := make([]string, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r.File)
	}
	return out
}

// ByFile returns the loaded resource for a file, or nil.
func (s *projectSource) ByFile(file string) *fhir.Resource {
	s.load()
	for _, r := range s.resources {
		if r.File == file {
			return r
		}
	}
	return nil
}

// load reads and parses every resource file below the root exactly once.
func (s *projectSource) load() {
	s.once.Do(func() {
		for _, pattern := range resourcePatterns {
			files, err := doublestar.Glob(s.fsys, pattern)
			if err != nil {
				s.log.Warn("resource scan failed",
					zap.String("pattern", pattern), zap.Error(err))
				continue
			}
			for _, file := range files {
				s.loadFile(file)
			}
		}
		s.log.Debug("project resources loaded",
			zap.String("root", s.root),
			zap.Int("resources", len(s.resources)),
			zap.Int("failures", len(s.failures)))
	})
}

// loadFile parses one candidate file, recording parse failures and skipping
// non-resource documents.
func (s *projectSource) loadFile(file string) {
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		s.failures = append(s.failures, ParseFailure{File: file, Err: err})
		return
	}

	res, err := fhir.Parse(data, file)
	if err != nil {
		s.failures = append(s.failures, ParseFailure{File: file, Err: err})
		return
	}
	if !resourceKinds[res.Kind] {
		return
	}
	s.resources = append(s.resources, res)
}
