package router

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

// ResourceHandler checks resource documents of one kind.
type ResourceHandler interface {
	// Name identifies the handler in timings and logs.
	Name() string

	// Kind is the resource kind the handler owns. At most one handler
	// per kind may be registered.
	Kind() fhir.Kind

	// CanHandle reports whether the handler applies to the document.
	// A handler may decline documents of its own kind, for example
	// drafts it does not check.
	CanHandle(res *fhir.Resource) bool

	// Check returns the findings for the document.
	Check(ctx *Context, res *fhir.Resource) []dsflint.Item
}

// DocumentRouter routes a resource document to the handler registered for
// its kind.
type DocumentRouter struct {
	handlers map[fhir.Kind]ResourceHandler
}

// NewDocumentRouter creates an empty document router.
func NewDocumentRouter() *DocumentRouter {
	return &DocumentRouter{handlers: make(map[fhir.Kind]ResourceHandler)}
}

// Register adds a handler. Registering a second handler for a kind is a
// wiring mistake and fails immediately.
func (r *DocumentRouter) Register(h ResourceHandler) error {
	if existing, ok := r.handlers[h.Kind()]; ok {
		return fmt.Errorf("handler %s: kind %s already handled by %s",
			h.Name(), h.Kind(), existing.Name())
	}
	r.handlers[h.Kind()] = h
	return nil
}

// MustRegister is Register for static wiring at startup.
func (r *DocumentRouter) MustRegister(h ResourceHandler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// Route dispatches the document to its kind's handler. Documents of a kind
// with no handler, or declined by their handler, produce no findings.
func (r *DocumentRouter) Route(ctx *Context, res *fhir.Resource) []dsflint.Item {
	h, ok := r.handlers[res.Kind]
	if !ok || !h.CanHandle(res) {
		ctx.Logger().Debug("document not handled",
			zap.String("kind", string(res.Kind)),
			zap.String("file", res.File))
		return nil
	}

	start := time.Now()
	items := h.Check(ctx, res)
	if ctx.Metrics != nil {
		ctx.Metrics.RecordRuleSet(h.Name(), time.Since(start), len(items))
	}
	ctx.Logger().Debug("document checked",
		zap.String("handler", h.Name()),
		zap.String("file", res.File),
		zap.Int("items", len(items)))
	return items
}

// Kinds returns the registered kinds.
func (r *DocumentRouter) Kinds() []fhir.Kind {
	out := make([]fhir.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	return out
}
