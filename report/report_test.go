package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

func sampleRun() *dsflint.Report {
	rep := dsflint.NewReport()
	rep.Add(dsflint.Error(dsflint.KindNotFound).
		Message("http://dsf.dev/fhir/StructureDefinition/task-ping not declared by this plugin").
		In("bpe/ping.bpmn").Rule("message-send").Build())
	rep.Add(dsflint.Warning(dsflint.KindPlaceholder).
		Message("version should be #{version}").
		In("fhir/ActivityDefinition/ping.json").Rule("metadata").Build())
	rep.Add(dsflint.Success(dsflint.KindNaming).
		Message("process id conforms").
		In("bpe/ping.bpmn").Rule("process-definition").Build())
	rep.Passed = false
	return rep
}

func TestNew(t *testing.T) {
	doc := New("ping-plugin", sampleRun())

	if doc.RunID == "" {
		t.Error("RunID must be set")
	}
	if doc.Root != "ping-plugin" {
		t.Errorf("Root = %q", doc.Root)
	}
	if doc.Version != dsflint.Version {
		t.Errorf("Version = %q", doc.Version)
	}
	if doc.Passed {
		t.Error("Passed must reflect the run")
	}

	want := Summary{Errors: 1, Warnings: 1, Successes: 1}
	if doc.Summary != want {
		t.Errorf("Summary = %+v; want %+v", doc.Summary, want)
	}
	if len(doc.Items) != 3 {
		t.Errorf("Items = %d; want 3", len(doc.Items))
	}
}

func TestNew_DistinctRunIDs(t *testing.T) {
	rep := sampleRun()
	if New("p", rep).RunID == New("p", rep).RunID {
		t.Error("every run must get its own id")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New("ping-plugin", sampleRun()).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Summary.Errors != 1 || len(decoded.Items) != 3 {
		t.Errorf("decoded document = %+v", decoded)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := New("ping-plugin", sampleRun()).WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["passed"] != false {
		t.Errorf("passed = %v", decoded["passed"])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := New("ping-plugin", sampleRun()).WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "not declared by this plugin") {
		t.Error("error item missing from text output")
	}
	if strings.Contains(out, "process id conforms") {
		t.Error("success items must not be listed individually")
	}
	if !strings.Contains(out, "FAILED: 1 errors, 1 warnings, 0 infos, 1 checks passed") {
		t.Errorf("verdict line missing:\n%s", out)
	}
}

func TestWrite_Formats(t *testing.T) {
	doc := New("ping-plugin", sampleRun())

	for _, format := range []string{"text", "json", "yaml", ""} {
		var buf bytes.Buffer
		if err := doc.Write(&buf, format); err != nil {
			t.Errorf("Write(%q) failed: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%q) produced no output", format)
		}
	}

	if err := doc.Write(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("unknown format must be rejected")
	}
}
