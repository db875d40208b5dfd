package resource

import (
	"fmt"
	"testing"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/index"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

type stubSource struct {
	resources map[fhir.Kind][]*fhir.Resource
}

func (s *stubSource) ID() string { return "project" }

func (s *stubSource) Scan(kind fhir.Kind) []*fhir.Resource {
	return s.resources[kind]
}

func mustParse(t *testing.T, file, data string) *fhir.Resource {
	t.Helper()
	res, err := fhir.Parse([]byte(data), file)
	if err != nil {
		t.Fatalf("parsing %s: %v", file, err)
	}
	return res
}

const taskProfileJSON = `{
  "resourceType": "StructureDefinition",
  "url": "http://dsf.dev/fhir/StructureDefinition/task-ping",
  "version": "#{version}",
  "status": "active",
  "snapshot": {
    "element": [
      {"id": "Task.input", "path": "Task.input", "min": 1, "max": "4"},
      {"id": "Task.input:message-name", "path": "Task.input", "sliceName": "message-name", "min": 1, "max": "1"},
      {"id": "Task.input:business-key", "path": "Task.input", "sliceName": "business-key", "min": 1, "max": "1"}
    ]
  }
}`

func activityDefinitionJSON(messageName string) string {
	return fmt.Sprintf(`{
		"resourceType": "ActivityDefinition",
		"url": "http://dsf.dev/bpe/Process/ping",
		"version": "#{version}",
		"status": "active",
		"extension": [{
			"url": "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization",
			"extension": [
				{"url": "message-name", "valueString": "%s"},
				{"url": "task-profile", "valueCanonical": "http://dsf.dev/fhir/StructureDefinition/task-ping|#{version}"},
				{"url": "requester", "valueCoding": {"code": "LOCAL_ALL"}},
				{"url": "recipient", "valueCoding": {"code": "LOCAL_ALL"}}
			]
		}]
	}`, messageName)
}

func taskJSON(status string, inputCodes ...string) string {
	inputs := ""
	for i, code := range inputCodes {
		if i > 0 {
			inputs += ","
		}
		inputs += fmt.Sprintf(`{
			"type": {"coding": [{"system": "http://dsf.dev/fhir/CodeSystem/bpmn-message", "code": "%s"}]},
			"valueString": "x"
		}`, code)
	}
	return fmt.Sprintf(`{
		"resourceType": "Task",
		"meta": {"profile": ["http://dsf.dev/fhir/StructureDefinition/task-ping|#{version}"]},
		"instantiatesCanonical": "http://dsf.dev/bpe/Process/ping|#{version}",
		"status": "%s",
		"authoredOn": "#{date}",
		"requester": {"identifier": {"value": "#{organization}"}},
		"restriction": {"recipient": [{"identifier": {"value": "#{organization}"}}]},
		"input": [%s]
	}`, status, inputs)
}

func testContext(t *testing.T) *router.Context {
	t.Helper()
	src := &stubSource{resources: map[fhir.Kind][]*fhir.Resource{
		fhir.KindActivityDefinition: {
			mustParse(t, "fhir/ActivityDefinition/ping.json", activityDefinitionJSON("pingMessage")),
		},
		fhir.KindStructureDefinition: {
			mustParse(t, "fhir/StructureDefinition/task-ping.json", taskProfileJSON),
		},
		fhir.KindCodeSystem: {
			mustParse(t, "fhir/CodeSystem/feasibility.json", `{
				"resourceType": "CodeSystem",
				"url": "http://dsf.dev/fhir/CodeSystem/feasibility",
				"version": "#{version}",
				"status": "active",
				"concept": [{"code": "single-medic-result"}, {"code": "multi-medic-result"}]
			}`),
		},
	}}

	opts := dsflint.DefaultOptions()
	return &router.Context{
		Options:   *opts,
		Index:     index.NewResolver(src, 100, nil),
		Processes: []string{"dsfdev_ping"},
	}
}

func severities(items []dsflint.Item) map[dsflint.Severity]int {
	out := make(map[dsflint.Severity]int)
	for _, i := range items {
		out[i.Severity]++
	}
	return out
}

func errorsOfKind(items []dsflint.Item, kind dsflint.ItemKind) int {
	n := 0
	for _, i := range items {
		if i.Severity == dsflint.SeverityError && i.Kind == kind {
			n++
		}
	}
	return n
}

func TestActivityDefinitionHandler(t *testing.T) {
	ctx := testContext(t)
	h := NewActivityDefinitionHandler()

	good := mustParse(t, "ad.json", activityDefinitionJSON("pingMessage"))
	items := h.Check(ctx, good)
	if s := severities(items); s[dsflint.SeverityError] != 0 {
		t.Errorf("conforming activity definition: %v", items)
	}

	// Unknown process key: the plugin defines no matching process.
	stray := mustParse(t, "ad2.json", `{
		"resourceType": "ActivityDefinition",
		"url": "http://dsf.dev/bpe/Process/unknownProcess",
		"version": "#{version}",
		"status": "active",
		"extension": [{
			"url": "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization",
			"extension": [
				{"url": "message-name", "valueString": "m"},
				{"url": "task-profile", "valueCanonical": "http://dsf.dev/fhir/StructureDefinition/task-ping"},
				{"url": "requester", "valueCoding": {"code": "LOCAL_ALL"}},
				{"url": "recipient", "valueCoding": {"code": "LOCAL_ALL"}}
			]
		}]
	}`)
	items = h.Check(ctx, stray)
	if errorsOfKind(items, dsflint.KindReference) != 1 {
		t.Errorf("unmatched process key: %v", items)
	}

	// Missing authorization parts.
	bare := mustParse(t, "ad3.json", `{
		"resourceType": "ActivityDefinition",
		"url": "http://dsf.dev/bpe/Process/ping",
		"version": "#{version}",
		"status": "active"
	}`)
	items = h.Check(ctx, bare)
	if errorsOfKind(items, dsflint.KindConfiguration) != 1 {
		t.Errorf("missing authorization: %v", items)
	}
}

func TestTaskHandler_DraftOmitsBusinessKey(t *testing.T) {
	ctx := testContext(t)
	h := NewTaskHandler()

	draft := mustParse(t, "task.json", taskJSON("draft", "message-name"))
	items := h.Check(ctx, draft)
	for _, item := range items {
		if item.Severity == dsflint.SeverityError && item.Kind == dsflint.KindCardinality {
			t.Errorf("draft task without business-key must not error: %v", item)
		}
	}
}

func TestTaskHandler_RunningTaskNeedsBusinessKey(t *testing.T) {
	ctx := testContext(t)
	h := NewTaskHandler()

	for _, status := range []string{"in-progress", "completed", "failed"} {
		task := mustParse(t, "task.json", taskJSON(status, "message-name"))
		items := h.Check(ctx, task)
		if errorsOfKind(items, dsflint.KindCardinality) == 0 {
			t.Errorf("status %s without business-key must error", status)
		}
	}

	complete := mustParse(t, "task.json", taskJSON("completed", "message-name", "business-key"))
	items := h.Check(ctx, complete)
	if n := errorsOfKind(items, dsflint.KindCardinality); n != 0 {
		t.Errorf("complete running task: %d cardinality errors: %v", n, items)
	}
}

func TestTaskHandler_SliceOverflow(t *testing.T) {
	ctx := testContext(t)
	h := NewTaskHandler()

	task := mustParse(t, "task.json",
		taskJSON("draft", "message-name", "message-name"))
	items := h.Check(ctx, task)
	if errorsOfKind(items, dsflint.KindCardinality) == 0 {
		t.Errorf("duplicated message-name input must exceed its slice max: %v", items)
	}
}

func TestTaskHandler_UnresolvableProcess(t *testing.T) {
	ctx := testContext(t)
	h := NewTaskHandler()

	task := mustParse(t, "task.json", `{
		"resourceType": "Task",
		"meta": {"profile": ["http://dsf.dev/fhir/StructureDefinition/task-ping"]},
		"instantiatesCanonical": "http://dsf.dev/bpe/Process/missing|#{version}",
		"status": "draft"
	}`)
	items := h.Check(ctx, task)
	if errorsOfKind(items, dsflint.KindNotFound) != 1 {
		t.Errorf("unresolvable process: %v", items)
	}
}

func TestStructureDefinitionHandler_SoftAndHardViolations(t *testing.T) {
	ctx := testContext(t)
	h := NewStructureDefinitionHandler()

	// Slice minimums sum to 2 over base min 1: satisfiable, soft only.
	soft := mustParse(t, "sd.json", `{
		"resourceType": "StructureDefinition",
		"url": "http://dsf.dev/fhir/StructureDefinition/task-x",
		"version": "#{version}",
		"status": "active",
		"snapshot": {"element": [
			{"id": "Task.input", "path": "Task.input", "min": 1, "max": "2"},
			{"id": "Task.input:a", "path": "Task.input", "sliceName": "a", "min": 1, "max": "1"},
			{"id": "Task.input:b", "path": "Task.input", "sliceName": "b", "min": 1, "max": "1"}
		]}
	}`)
	items := h.Check(ctx, soft)
	s := severities(items)
	if errorsOfKind(items, dsflint.KindSlicing) != 0 {
		t.Errorf("soft violation must not be an error: %v", items)
	}
	if s[dsflint.SeverityWarning] == 0 {
		t.Errorf("soft violation should warn: %v", items)
	}

	hard := mustParse(t, "sd.json", `{
		"resourceType": "StructureDefinition",
		"url": "http://dsf.dev/fhir/StructureDefinition/task-y",
		"version": "#{version}",
		"status": "active",
		"snapshot": {"element": [
			{"id": "Task.input", "path": "Task.input", "min": 1, "max": "2"},
			{"id": "Task.input:a", "path": "Task.input", "sliceName": "a", "min": 2, "max": "1"},
			{"id": "Task.input:b", "path": "Task.input", "sliceName": "b", "min": 1, "max": "5"}
		]}
	}`)
	items = h.Check(ctx, hard)
	if errorsOfKind(items, dsflint.KindSlicing) != 2 {
		t.Errorf("want sum-exceeds-max and slice-max errors: %v", items)
	}
}

func TestValueSetHandler_CodingMembership(t *testing.T) {
	ctx := testContext(t)
	h := NewValueSetHandler()

	vs := mustParse(t, "vs.json", `{
		"resourceType": "ValueSet",
		"url": "http://dsf.dev/fhir/ValueSet/feasibility",
		"version": "#{version}",
		"status": "active",
		"compose": {"include": [{
			"system": "http://dsf.dev/fhir/CodeSystem/feasibility",
			"concept": [{"code": "single-medic-result"}, {"code": "bogus"}]
		}]}
	}`)
	items := h.Check(ctx, vs)
	if errorsOfKind(items, dsflint.KindCoding) != 1 {
		t.Errorf("want one invalid code: %v", items)
	}

	external := mustParse(t, "vs2.json", `{
		"resourceType": "ValueSet",
		"url": "http://dsf.dev/fhir/ValueSet/ext",
		"version": "#{version}",
		"status": "active",
		"compose": {"include": [{"system": "http://loinc.org"}]}
	}`)
	items = h.Check(ctx, external)
	if s := severities(items); s[dsflint.SeverityError] != 0 {
		t.Errorf("external system must not error: %v", items)
	}
}

func TestCodeSystemHandler_DuplicateCodes(t *testing.T) {
	ctx := testContext(t)
	h := NewCodeSystemHandler()

	cs := mustParse(t, "cs.json", `{
		"resourceType": "CodeSystem",
		"url": "http://dsf.dev/fhir/CodeSystem/x",
		"version": "#{version}",
		"status": "active",
		"concept": [{"code": "a"}, {"code": "a"}]
	}`)
	items := h.Check(ctx, cs)
	if errorsOfKind(items, dsflint.KindDuplicate) != 1 {
		t.Errorf("want one duplicate code error: %v", items)
	}
}

func TestQuestionnaireHandler(t *testing.T) {
	ctx := testContext(t)
	h := NewQuestionnaireHandler()

	q := mustParse(t, "q.json", `{
		"resourceType": "Questionnaire",
		"url": "http://dsf.dev/fhir/Questionnaire/review",
		"version": "#{version}",
		"status": "active",
		"item": [
			{"linkId": "business-key", "type": "string"},
			{"linkId": "user-task-id", "type": "string"},
			{"linkId": "approve", "type": "boolean"}
		]
	}`)
	items := h.Check(ctx, q)
	if s := severities(items); s[dsflint.SeverityError] != 0 {
		t.Errorf("conforming questionnaire: %v", items)
	}

	incomplete := mustParse(t, "q2.json", `{
		"resourceType": "Questionnaire",
		"url": "http://dsf.dev/fhir/Questionnaire/bad",
		"version": "#{version}",
		"status": "active",
		"item": [{"linkId": "approve", "type": "boolean"}]
	}`)
	items = h.Check(ctx, incomplete)
	if errorsOfKind(items, dsflint.KindStructure) != 2 {
		t.Errorf("missing engine items: %v", items)
	}
}

func TestMetadata_PlaceholderConventions(t *testing.T) {
	ctx := testContext(t)

	literal := mustParse(t, "cs.json", `{
		"resourceType": "CodeSystem",
		"url": "http://dsf.dev/fhir/CodeSystem/x",
		"version": "1.0.0",
		"date": "2024-01-01",
		"status": "active",
		"concept": [{"code": "a"}]
	}`)
	items := checkMetadata(ctx, literal, "test")

	warnings := 0
	for _, i := range items {
		if i.Severity == dsflint.SeverityWarning && i.Kind == dsflint.KindPlaceholder {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("literal version and date should each warn: %v", items)
	}
}

func TestRegister_AllHandlersDistinct(t *testing.T) {
	r := router.NewDocumentRouter()
	if err := Register(r); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(r.Kinds()) != 6 {
		t.Errorf("registered kinds = %d; want 6", len(r.Kinds()))
	}
}
