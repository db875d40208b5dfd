package resource

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// engineItems are the questionnaire items the engine fills in itself; every
// user-task questionnaire must declare them.
var engineItems = []string{"business-key", "user-task-id"}

// QuestionnaireHandler checks a user-task questionnaire: metadata
// conventions, well-formed items and the engine-managed items.
type QuestionnaireHandler struct{}

// NewQuestionnaireHandler creates the handler.
func NewQuestionnaireHandler() *QuestionnaireHandler {
	return &QuestionnaireHandler{}
}

// Name implements router.ResourceHandler.
func (h *QuestionnaireHandler) Name() string { return "questionnaire" }

// Kind implements router.ResourceHandler.
func (h *QuestionnaireHandler) Kind() fhir.Kind { return fhir.KindQuestionnaire }

// CanHandle implements router.ResourceHandler.
func (h *QuestionnaireHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *QuestionnaireHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	if !ctx.Options.ValidateQuestionnaires {
		return []dsflint.Item{dsflint.Info(dsflint.KindStructure).
			Message("questionnaire not checked, questionnaire validation is disabled").
			In(res.File).Rule(h.Name()).Build()}
	}

	items := checkMetadata(ctx, res, h.Name())

	linkIDs := make(map[string]bool)
	for i, q := range res.Tree.ChildrenNamed("item") {
		linkID := q.ValueAt("linkId")
		if linkID == "" {
			items = append(items, dsflint.Error(dsflint.KindStructure).
				Message(fmt.Sprintf("item %d declares no linkId", i+1)).
				In(res.File).Rule(h.Name()).Build())
			continue
		}
		if linkIDs[linkID] {
			items = append(items, dsflint.Error(dsflint.KindDuplicate).
				Message(fmt.Sprintf("linkId %q is declared more than once", linkID)).
				In(res.File).Element(linkID).Rule(h.Name()).Build())
		}
		linkIDs[linkID] = true

		if q.ValueAt("type") == "" {
			items = append(items, dsflint.Error(dsflint.KindStructure).
				Message(fmt.Sprintf("item %q declares no type", linkID)).
				In(res.File).Element(linkID).Rule(h.Name()).Build())
		}
	}

	for _, required := range engineItems {
		if !linkIDs[required] {
			items = append(items, dsflint.Error(dsflint.KindStructure).
				Message(fmt.Sprintf("questionnaire declares no %q item", required)).
				In(res.File).Rule(h.Name()).Build())
			continue
		}
		items = append(items, dsflint.Success(dsflint.KindStructure).
			Message(fmt.Sprintf("questionnaire declares the %q item", required)).
			In(res.File).Element(required).Rule(h.Name()).Build())
	}
	return items
}
