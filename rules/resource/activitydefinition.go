package resource

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// ActivityDefinitionHandler checks an activity definition: its process URL
// must derive a process defined by the plugin, and every declared message
// authorization must be complete and reference a shipped task profile.
type ActivityDefinitionHandler struct{}

// NewActivityDefinitionHandler creates the handler.
func NewActivityDefinitionHandler() *ActivityDefinitionHandler {
	return &ActivityDefinitionHandler{}
}

// Name implements router.ResourceHandler.
func (h *ActivityDefinitionHandler) Name() string { return "activity-definition" }

// Kind implements router.ResourceHandler.
func (h *ActivityDefinitionHandler) Kind() fhir.Kind { return fhir.KindActivityDefinition }

// CanHandle implements router.ResourceHandler.
func (h *ActivityDefinitionHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *ActivityDefinitionHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	items := checkMetadata(ctx, res, h.Name())

	key := fhir.ProcessKey(res.URL)
	switch {
	case res.URL == "":
		// Already reported by the metadata check.
	case key == "":
		items = append(items, dsflint.Error(dsflint.KindNaming).
			Message(fmt.Sprintf("activity definition url %s does not derive a process key", res.URL)).
			In(res.File).Rule(h.Name()).Build())
	case !ctx.HasProcess(key):
		items = append(items, dsflint.Error(dsflint.KindReference).
			Message(fmt.Sprintf("activity definition url %s derives process key %s, but the plugin defines no such process", res.URL, key)).
			In(res.File).Rule(h.Name()).Build())
	default:
		items = append(items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("activity definition url %s matches process %s", res.URL, key)).
			In(res.File).Process(key).Rule(h.Name()).Build())
	}

	auths := res.MessageAuthorizations()
	if len(auths) == 0 {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message("activity definition declares no process authorization").
			In(res.File).Rule(h.Name()).Build())
		return items
	}

	for i, ma := range auths {
		items = append(items, h.checkAuthorization(ctx, res, i, ma)...)
	}
	return items
}

// checkAuthorization checks one process-authorization extension.
func (h *ActivityDefinitionHandler) checkAuthorization(ctx *router.Context, res *fhir.Resource, i int, ma fhir.MessageAuthorization) []dsflint.Item {
	var items []dsflint.Item
	at := fmt.Sprintf("authorization %d", i+1)

	if ma.MessageName == "" {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(at+" declares no message name").
			In(res.File).Rule(h.Name()).Build())
	} else {
		items = append(items, dsflint.Success(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s authorizes message %q", at, ma.MessageName)).
			In(res.File).Rule(h.Name()).Build())
	}

	switch {
	case ma.TaskProfile.URL == "":
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(at+" declares no task profile").
			In(res.File).Rule(h.Name()).Build())
	case !ctx.Index.Exists(fhir.KindStructureDefinition, ma.TaskProfile):
		items = append(items, dsflint.Error(dsflint.KindNotFound).
			Message(fmt.Sprintf("%s references task profile %s, which does not resolve to a structure definition", at, ma.TaskProfile)).
			In(res.File).Rule(h.Name()).Build())
	default:
		items = append(items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("%s task profile %s resolves to a structure definition", at, ma.TaskProfile)).
			In(res.File).Rule(h.Name()).Build())
	}

	if ma.Requesters == 0 {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(at+" declares no requester").
			In(res.File).Rule(h.Name()).Build())
	}
	if ma.Recipients == 0 {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(at+" declares no recipient").
			In(res.File).Rule(h.Name()).Build())
	}
	return items
}
