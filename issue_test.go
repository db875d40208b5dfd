package dsflint

import "testing"

func TestSeverity_Rank(t *testing.T) {
	order := []Severity{SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Rank(%s) = %d should exceed Rank(%s) = %d",
				order[i], order[i].Rank(), order[i-1], order[i-1].Rank())
		}
	}
}

func TestItemBuilder(t *testing.T) {
	item := Error(KindCapability).
		Message("type does not satisfy contract").
		In("bpe/test.bpmn").
		Process("dsfdev_test").
		Element("task1").
		Rule("service-task-implementation").
		Build()

	if item.Severity != SeverityError {
		t.Errorf("Severity = %s; want %s", item.Severity, SeverityError)
	}
	if item.Kind != KindCapability {
		t.Errorf("Kind = %s; want %s", item.Kind, KindCapability)
	}
	if item.Location.File != "bpe/test.bpmn" {
		t.Errorf("File = %s; want bpe/test.bpmn", item.Location.File)
	}
	if item.Location.ProcessID != "dsfdev_test" {
		t.Errorf("ProcessID = %s; want dsfdev_test", item.Location.ProcessID)
	}
	if item.Location.ElementID != "task1" {
		t.Errorf("ElementID = %s; want task1", item.Location.ElementID)
	}
	if !item.IsError() {
		t.Error("IsError() should be true for an error item")
	}
}

func TestItem_String(t *testing.T) {
	item := Warning(KindNaming).
		Message("element has no name").
		In("test.bpmn").
		Element("task1").
		Build()

	want := "warning: element has no name at test.bpmn#task1"
	if got := item.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}

func TestSuccessItemIsNotError(t *testing.T) {
	item := Success(KindReference).Message("resolved").Build()
	if item.IsError() {
		t.Error("success item must not fail the run")
	}
}
