package cardinality

import (
	"testing"

	"github.com/datasharingframework/dsf-linter-sub005/fhir"
)

const taskProfileJSON = `{
  "resourceType": "StructureDefinition",
  "url": "http://dsf.dev/fhir/StructureDefinition/task-ping",
  "snapshot": {
    "element": [
      {"id": "Task", "path": "Task", "min": 0, "max": "*"},
      {"id": "Task.input", "path": "Task.input", "min": 1, "max": "4"},
      {"id": "Task.input:message-name", "path": "Task.input", "sliceName": "message-name", "min": 1, "max": "1"},
      {"id": "Task.input:message-name.type", "path": "Task.input.type", "min": 1, "max": "1"},
      {"id": "Task.input:business-key", "path": "Task.input", "sliceName": "business-key", "min": 0},
      {"id": "Task.output", "path": "Task.output", "min": 0, "max": "*"}
    ]
  }
}`

func TestCollect(t *testing.T) {
	sd, err := fhir.Parse([]byte(taskProfileJSON), "sd.json")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sets, errs := Collect(sd)
	if len(errs) != 0 {
		t.Fatalf("Collect errors: %v", errs)
	}
	if len(sets) != 1 {
		t.Fatalf("Collect returned %d slice sets; want 1", len(sets))
	}

	s := sets[0]
	if s.Base.ID != "Task.input" {
		t.Errorf("Base.ID = %s; want Task.input", s.Base.ID)
	}
	if len(s.Slices) != 2 {
		t.Fatalf("slices = %d; want 2 (nested children are not slice roots)", len(s.Slices))
	}

	byName := map[string]ElementDef{}
	for _, sl := range s.Slices {
		byName[sl.SliceName] = sl
	}

	mn := byName["message-name"]
	if !mn.Min.IsSet() || mn.Min.Value() != 1 || mn.Max.Value() != 1 {
		t.Errorf("message-name bounds = %s..%s; want 1..1", mn.Min, mn.Max)
	}

	// business-key declares no max and inherits the base maximum.
	bk := byName["business-key"]
	if !bk.Max.IsSet() || bk.Max.IsUnbounded() || bk.Max.Value() != 4 {
		t.Errorf("business-key max = %s; want inherited 4", bk.Max)
	}
}

func TestCollect_MalformedBound(t *testing.T) {
	sd, err := fhir.Parse([]byte(`{
		"resourceType": "StructureDefinition",
		"url": "http://x",
		"snapshot": {
			"element": [
				{"id": "Task.input", "path": "Task.input", "min": "one", "max": "2"}
			]
		}
	}`), "bad.json")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sets, errs := Collect(sd)
	if len(errs) != 1 {
		t.Errorf("want one parse error; got %v", errs)
	}
	if len(sets) != 0 {
		t.Errorf("malformed element must be skipped; got %v", sets)
	}
}

func TestCollect_NoSnapshot(t *testing.T) {
	sd, err := fhir.Parse([]byte(`{"resourceType": "StructureDefinition", "url": "http://x"}`), "sd.json")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sets, errs := Collect(sd); len(sets) != 0 || len(errs) != 0 {
		t.Error("no snapshot means nothing to collect")
	}
}
