// Package engine orchestrates a linter run: it scans a plugin project,
// builds the shared resolvers, validates every file through the routers and
// aggregates the findings into one report.
package engine

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/index"
	"github.com/datasharingframework/dsf-linter-sub005/router"
	processrules "github.com/datasharingframework/dsf-linter-sub005/rules/process"
	resourcerules "github.com/datasharingframework/dsf-linter-sub005/rules/resource"
	"github.com/datasharingframework/dsf-linter-sub005/worker"
)

// Engine validates process plugin projects.
type Engine struct {
	opts    dsflint.Options
	log     *zap.Logger
	metrics *dsflint.Metrics
	catalog capability.Catalog

	processes *router.ProcessRouter
	documents *router.DocumentRouter
}

// New creates an engine with the full rule sets wired in. The catalog
// provides the plugin's type information for capability checks.
func New(catalog capability.Catalog, log *zap.Logger, opts ...dsflint.Option) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	o := dsflint.DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	pr := router.NewProcessRouter()
	processrules.Register(pr)

	dr := router.NewDocumentRouter()
	if err := resourcerules.Register(dr); err != nil {
		return nil, fmt.Errorf("wiring resource handlers: %w", err)
	}

	return &Engine{
		opts:      *o,
		log:       log,
		metrics:   dsflint.NewMetrics(),
		catalog:   catalog,
		processes: pr,
		documents: dr,
	}, nil
}

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *dsflint.Metrics { return e.metrics }

// ValidateProject validates every process and resource file below root and
// returns the aggregated report. The report is best-effort and maximal:
// broken individual files become findings, never abort the run.
func (e *Engine) ValidateProject(root string) (*dsflint.Report, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	return e.validateProject(root, os.DirFS(root))
}

// ValidateProjectFS is ValidateProject over an abstract filesystem.
func (e *Engine) ValidateProjectFS(root string, fsys fs.FS) (*dsflint.Report, error) {
	return e.validateProject(root, fsys)
}

func (e *Engine) validateProject(root string, fsys fs.FS) (*dsflint.Report, error) {
	source := newProjectSource(root, fsys, e.log)
	resolver := index.NewResolver(source, e.opts.ResolverCacheSize, e.metrics)
	types := capability.NewResolver(e.catalog, e.opts.TypeCacheSize)

	report := dsflint.NewReport()
	report.File = root

	// Process files are parsed up front: the resource handlers need the
	// defined process ids, and parse failures become boundary items here.
	processFiles, err := doublestar.Glob(fsys, processPattern)
	if err != nil {
		return nil, fmt.Errorf("process scan: %w", err)
	}
	sort.Strings(processFiles)

	parsed := make(map[string]*bpmn.Definitions, len(processFiles))
	var processIDs []string
	for _, file := range processFiles {
		data, err := fs.ReadFile(fsys, file)
		if err == nil {
			var defs *bpmn.Definitions
			defs, err = bpmn.Parse(bytes.NewReader(data))
			if err == nil {
				parsed[file] = defs
				for _, p := range defs.Processes {
					processIDs = append(processIDs, p.ID)
				}
				continue
			}
		}
		report.Add(unparsableItem(file, err))
	}

	ctx := &router.Context{
		Options:   e.opts,
		Index:     resolver,
		Types:     types,
		Metrics:   e.metrics,
		Log:       e.log,
		Processes: processIDs,
	}

	for _, f := range source.Failures() {
		report.Add(unparsableItem(f.File, f.Err))
	}

	pool := worker.NewPool(func(file string) *dsflint.Report {
		return e.validateFile(ctx, file, parsed[file], source)
	}, e.opts.WorkerCount)

	for _, file := range processFiles {
		if _, ok := parsed[file]; ok {
			pool.Submit(file)
		}
	}
	for _, file := range source.Files() {
		pool.Submit(file)
	}

	for _, r := range pool.CloseAndWait() {
		report.Merge(r.Report)
		e.metrics.RecordFile(r.Duration, !r.Report.HasErrors())
		r.Report.Release()
	}

	report.AddAll(e.duplicateItems(resolver))
	for _, item := range report.Items {
		e.metrics.RecordItem(item.Severity)
	}

	report.Passed = !report.HasErrors()
	e.log.Info("project validated",
		zap.String("root", root),
		zap.Bool("passed", report.Passed),
		zap.Int("items", len(report.Items)),
		zap.Int("errors", report.ErrorCount()))
	return report, nil
}

// validateFile runs one file through the matching router.
func (e *Engine) validateFile(ctx *router.Context, file string, defs *bpmn.Definitions, source *projectSource) *dsflint.Report {
	report := dsflint.AcquireReport()
	report.File = file
	fctx := ctx.WithFile(file)

	if defs != nil {
		for _, proc := range defs.Processes {
			report.AddAll(e.processes.Route(fctx, proc))
		}
		return report
	}
	if res := source.ByFile(file); res != nil {
		report.AddAll(e.documents.Route(fctx, res))
	}
	return report
}

// ValidateProcess validates already-parsed process definitions.
func (e *Engine) ValidateProcess(ctx *router.Context, file string, defs *bpmn.Definitions) *dsflint.Report {
	report := dsflint.AcquireReport()
	report.File = file
	fctx := ctx.WithFile(file)
	for _, proc := range defs.Processes {
		report.AddAll(e.processes.Route(fctx, proc))
	}
	report.Passed = !report.HasErrors()
	return report
}

// ValidateResource validates one already-parsed resource document.
func (e *Engine) ValidateResource(ctx *router.Context, res *fhir.Resource) *dsflint.Report {
	report := dsflint.AcquireReport()
	report.File = res.File
	report.AddAll(e.documents.Route(ctx.WithFile(res.File), res))
	report.Passed = !report.HasErrors()
	return report
}

// duplicateItems reports every canonical identifier declared by more than
// one file; duplicates are reportable, never silently merged. All indexed
// kinds are covered, including those without a dedicated handler.
func (e *Engine) duplicateItems(resolver *index.Resolver) []dsflint.Item {
	var items []dsflint.Item
	for _, kind := range indexedKinds {
		for _, entry := range resolver.Duplicates(kind) {
			for _, dup := range entry.Duplicates {
				items = append(items, dsflint.Error(dsflint.KindDuplicate).
					Message(fmt.Sprintf("%s %s is already declared by %s",
						kind, dup.Canonical(), entry.Resource.File)).
					In(dup.File).Rule("duplicate-identifier").Build())
			}
		}
	}
	return items
}

// unparsableItem is the boundary conversion of a parse failure: one item,
// the rest of the file's findings are lost.
func unparsableItem(file string, err error) dsflint.Item {
	msg := "file unparsable; other findings for this plugin may be incomplete"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return dsflint.Error(dsflint.KindParse).
		Message(msg).In(file).Rule("parse").Build()
}
