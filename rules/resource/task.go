package resource

import (
	"fmt"
	"strings"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/cardinality"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// draftExemptSlices are input slices a draft task template legitimately
// omits: they are filled in by the engine when a process instance starts.
var draftExemptSlices = map[string]bool{
	"business-key":    true,
	"correlation-key": true,
}

// TaskHandler checks a task template: the instantiated process, the declared
// profiles, the deployment placeholders and the input slice counts against
// the referenced task profile.
type TaskHandler struct{}

// NewTaskHandler creates the handler.
func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// Name implements router.ResourceHandler.
func (h *TaskHandler) Name() string { return "task-template" }

// Kind implements router.ResourceHandler.
func (h *TaskHandler) Kind() fhir.Kind { return fhir.KindTask }

// CanHandle implements router.ResourceHandler.
func (h *TaskHandler) CanHandle(res *fhir.Resource) bool { return true }

// Check implements router.ResourceHandler.
func (h *TaskHandler) Check(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	var items []dsflint.Item

	items = append(items, h.checkInstantiates(ctx, res)...)
	items = append(items, h.checkPlaceholders(res)...)

	profile := h.checkProfiles(ctx, res, &items)
	if profile != nil {
		items = append(items, h.checkInputs(res, profile)...)
	}
	return items
}

// checkInstantiates validates the instantiated process reference.
func (h *TaskHandler) checkInstantiates(ctx *router.Context, res *fhir.Resource) []dsflint.Item {
	c := res.InstantiatesCanonical()
	if c.URL == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
			Message("task declares no instantiatesCanonical").
			In(res.File).Rule(h.Name()).Build()}
	}

	var items []dsflint.Item
	if c.Version != PlaceholderVersion {
		items = append(items, dsflint.Warning(dsflint.KindPlaceholder).
			Message(fmt.Sprintf("instantiatesCanonical version %q should be the %s placeholder", c.Version, PlaceholderVersion)).
			In(res.File).Rule(h.Name()).Build())
	}

	if !ctx.Index.Exists(fhir.KindActivityDefinition, fhir.Canonical{URL: c.URL}) {
		items = append(items, dsflint.Error(dsflint.KindNotFound).
			Message(fmt.Sprintf("instantiatesCanonical %s does not resolve to an activity definition", c.URL)).
			In(res.File).Rule(h.Name()).Build())
		return items
	}
	return append(items, dsflint.Success(dsflint.KindReference).
		Message(fmt.Sprintf("instantiatesCanonical %s resolves to an activity definition", c.URL)).
		In(res.File).Rule(h.Name()).Build())
}

// checkPlaceholders validates the deployment-time placeholder tokens of a
// task template.
func (h *TaskHandler) checkPlaceholders(res *fhir.Resource) []dsflint.Item {
	var items []dsflint.Item

	if authored := res.Tree.ValueAt("authoredOn"); authored != "" && authored != PlaceholderDate {
		items = append(items, dsflint.Warning(dsflint.KindPlaceholder).
			Message(fmt.Sprintf("authoredOn %q should be the %s placeholder", authored, PlaceholderDate)).
			In(res.File).Rule(h.Name()).Build())
	}

	for path, value := range map[string]string{
		"requester.identifier.value":             res.Tree.ValueAt("requester.identifier.value"),
		"restriction.recipient.identifier.value": res.Tree.ValueAt("restriction.recipient.identifier.value"),
	} {
		if value == "" || value == PlaceholderOrganization {
			continue
		}
		items = append(items, dsflint.Warning(dsflint.KindPlaceholder).
			Message(fmt.Sprintf("%s %q should be the %s placeholder", path, value, PlaceholderOrganization)).
			In(res.File).Rule(h.Name()).Build())
	}
	return items
}

// checkProfiles validates meta.profile and returns the first resolving task
// profile for the input checks, or nil.
func (h *TaskHandler) checkProfiles(ctx *router.Context, res *fhir.Resource, items *[]dsflint.Item) *fhir.Resource {
	profiles := res.TaskProfiles()
	if len(profiles) == 0 {
		*items = append(*items, dsflint.Error(dsflint.KindConfiguration).
			Message("task declares no profile in meta.profile").
			In(res.File).Rule(h.Name()).Build())
		return nil
	}

	var resolved *fhir.Resource
	for _, p := range profiles {
		entry, ok := ctx.Index.Resolve(fhir.KindStructureDefinition, p)
		if !ok {
			*items = append(*items, dsflint.Error(dsflint.KindNotFound).
				Message(fmt.Sprintf("profile %s does not resolve to a structure definition", p)).
				In(res.File).Rule(h.Name()).Build())
			continue
		}
		*items = append(*items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("profile %s resolves to %s", p, entry.Resource.File)).
			In(res.File).Rule(h.Name()).Build())
		if resolved == nil {
			resolved = entry.Resource
		}
	}
	return resolved
}

// checkInputs counts the task's inputs per slice discriminator code and
// checks them against the task profile's slice bounds. Slices a draft
// template legitimately omits are exempt from their minimum while status is
// draft.
func (h *TaskHandler) checkInputs(res, profile *fhir.Resource) []dsflint.Item {
	sets, errs := cardinality.Collect(profile)
	var items []dsflint.Item
	for _, err := range errs {
		items = append(items, dsflint.Error(dsflint.KindStructure).
			Message(err.Error()).
			In(profile.File).Rule(h.Name()).Build())
	}

	counts := make(map[string]int)
	total := 0
	for _, input := range res.Tree.ChildrenNamed("input") {
		total++
		if code := input.ValueAt("type.coding.code"); code != "" {
			counts[code]++
		}
	}

	for _, set := range sets {
		if set.Base.Path != "Task.input" {
			continue
		}
		for _, v := range cardinality.CheckInstance(set, counts, total) {
			// Engine-filled slices are only demanded of tasks that
			// have actually run; a draft template omits them.
			if v.Kind == cardinality.SliceTooFew && draftExemptSlices[v.Slice] &&
				!statusRequiresBusinessKey(res.Status) {
				continue
			}
			items = append(items, h.violationItem(res, v))
		}
		items = append(items, dsflint.Success(dsflint.KindCardinality).
			Message(fmt.Sprintf("task inputs checked against %d slices of %s", len(set.Slices), set.Base.ID)).
			In(res.File).Rule(h.Name()).Build())
	}
	return items
}

// violationItem converts a cardinality violation into a finding.
func (h *TaskHandler) violationItem(res *fhir.Resource, v cardinality.Violation) dsflint.Item {
	b := dsflint.Warning(dsflint.KindCardinality)
	if v.Hard {
		b = dsflint.Error(dsflint.KindCardinality)
	}
	return b.Message(v.Message).
		In(res.File).Element(elementOf(v)).Rule(h.Name()).Build()
}

// elementOf renders the violated element for the item location.
func elementOf(v cardinality.Violation) string {
	if v.Slice == "" {
		return v.Element
	}
	return v.Element + ":" + v.Slice
}

// statusRequiresBusinessKey reports whether the task status demands a
// business key: running and finished tasks have one, drafts do not.
func statusRequiresBusinessKey(status string) bool {
	switch strings.ToLower(status) {
	case "in-progress", "completed", "failed":
		return true
	}
	return false
}
