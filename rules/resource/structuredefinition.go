package resource

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/cardinality"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// StructureDefinitionHandler checks a task profile: metadata conventions and
// the internal consistency of its declared slice bounds.
type StructureDefinitionHandler struct{}

// NewStructureDefinitionHandler creates the handler.
func NewStructureDefinitionHandler() *StructureDefinitionHandler {
	return &StructureDefinitionHandler{}
}

// Name implements router.ResourceHandler.
func (h *StructureDefinitionHandler) Name() string { return "structure-definition" }

// Kind implements router.ResourceHandler.
func (h *StructureDefinitionHandler) Kind() fhir.Kind { return fhir.KindStructureDefinition }

// CanHandle implements router.ResourceHandler.
func (h *StructureDefinitionHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *StructureDefinitionHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	items := checkMetadata(ctx, res, h.Name())

	sets, errs := cardinality.Collect(res)
	for _, err := range errs {
		items = append(items, dsflint.Error(dsflint.KindStructure).
			Message(err.Error()).
			In(res.File).Rule(h.Name()).Build())
	}

	for _, set := range sets {
		violations := cardinality.CheckDeclaration(set)
		for _, v := range violations {
			b := dsflint.Warning(dsflint.KindSlicing)
			if v.Hard {
				b = dsflint.Error(dsflint.KindSlicing)
			}
			items = append(items, b.Message(v.Message).
				In(res.File).Element(elementOf(v)).Rule(h.Name()).Build())
		}
		if len(violations) == 0 {
			items = append(items, dsflint.Success(dsflint.KindSlicing).
				Message(fmt.Sprintf("slice bounds of %s are consistent", set.Base.ID)).
				In(res.File).Element(set.Base.ID).Rule(h.Name()).Build())
		}
	}
	return items
}
