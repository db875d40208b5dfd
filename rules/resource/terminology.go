package resource

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// ValueSetHandler checks a value set: metadata conventions and, for every
// composed coding system the plugin ships itself, membership of each
// enumerated code.
type ValueSetHandler struct{}

// NewValueSetHandler creates the handler.
func NewValueSetHandler() *ValueSetHandler {
	return &ValueSetHandler{}
}

// Name implements router.ResourceHandler.
func (h *ValueSetHandler) Name() string { return "value-set" }

// Kind implements router.ResourceHandler.
func (h *ValueSetHandler) Kind() fhir.Kind { return fhir.KindValueSet }

// CanHandle implements router.ResourceHandler.
func (h *ValueSetHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *ValueSetHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	items := checkMetadata(ctx, res, h.Name())

	includes := res.Includes()
	if len(includes) == 0 {
		items = append(items, dsflint.Warning(dsflint.KindStructure).
			Message("value set composes no coding system").
			In(res.File).Rule(h.Name()).Build())
		return items
	}

	for _, inc := range includes {
		items = append(items, h.checkInclude(ctx, res, inc)...)
	}
	return items
}

// checkInclude checks one compose.include entry. Coding systems the plugin
// does not ship are outside the project and only noted.
func (h *ValueSetHandler) checkInclude(ctx *router.Context, res *fhir.Resource, inc fhir.ValueSetInclude) []dsflint.Item {
	if inc.System == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindStructure).
			Message("value set include declares no system").
			In(res.File).Rule(h.Name()).Build()}
	}

	entry, ok := ctx.Index.Resolve(fhir.KindCodeSystem, fhir.Canonical{URL: inc.System})
	if !ok {
		return []dsflint.Item{dsflint.Info(dsflint.KindReference).
			Message(fmt.Sprintf("coding system %s is not shipped by the plugin, codes not checked", inc.System)).
			In(res.File).Rule(h.Name()).Build()}
	}

	if !ctx.Options.ValidateCodings {
		return []dsflint.Item{dsflint.Info(dsflint.KindCoding).
			Message(fmt.Sprintf("codes of %s not checked, coding validation is disabled", inc.System)).
			In(res.File).Rule(h.Name()).Build()}
	}

	defined := make(map[string]bool)
	for _, code := range entry.Resource.Codes() {
		defined[code] = true
	}

	var items []dsflint.Item
	for _, code := range inc.Codes {
		if !defined[code] {
			items = append(items, dsflint.Error(dsflint.KindCoding).
				Message(fmt.Sprintf("code %q is not defined by coding system %s", code, inc.System)).
				In(res.File).Rule(h.Name()).Build())
			continue
		}
		items = append(items, dsflint.Success(dsflint.KindCoding).
			Message(fmt.Sprintf("code %q is defined by coding system %s", code, inc.System)).
			In(res.File).Rule(h.Name()).Build())
	}
	return items
}

// CodeSystemHandler checks a coding system: metadata conventions, at least
// one concept and no duplicate codes.
type CodeSystemHandler struct{}

// NewCodeSystemHandler creates the handler.
func NewCodeSystemHandler() *CodeSystemHandler {
	return &CodeSystemHandler{}
}

// Name implements router.ResourceHandler.
func (h *CodeSystemHandler) Name() string { return "code-system" }

// Kind implements router.ResourceHandler.
func (h *CodeSystemHandler) Kind() fhir.Kind { return fhir.KindCodeSystem }

// CanHandle implements router.ResourceHandler.
func (h *CodeSystemHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *CodeSystemHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	items := checkMetadata(ctx, res, h.Name())

	codes := res.Codes()
	if len(codes) == 0 {
		items = append(items, dsflint.Warning(dsflint.KindStructure).
			Message("coding system defines no concept").
			In(res.File).Rule(h.Name()).Build())
		return items
	}

	seen := make(map[string]bool, len(codes))
	duplicates := 0
	for _, code := range codes {
		if seen[code] {
			duplicates++
			items = append(items, dsflint.Error(dsflint.KindDuplicate).
				Message(fmt.Sprintf("code %q is defined more than once", code)).
				In(res.File).Rule(h.Name()).Build())
		}
		seen[code] = true
	}
	if duplicates == 0 {
		items = append(items, dsflint.Success(dsflint.KindStructure).
			Message(fmt.Sprintf("coding system defines %d distinct concepts", len(seen))).
			In(res.File).Rule(h.Name()).Build())
	}
	return items
}
