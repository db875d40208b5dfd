package dsflint

import (
	"sync"
	"testing"
)

func TestReport_AddAndCounts(t *testing.T) {
	r := NewReport()
	r.Add(Error(KindStructure).Message("e").Build())
	r.Add(Warning(KindNaming).Message("w").Build())
	r.Add(Success(KindReference).Message("s").Build())

	if !r.HasErrors() {
		t.Error("HasErrors() should be true")
	}
	if r.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d; want 1", r.ErrorCount())
	}
	if r.WarningCount() != 1 {
		t.Errorf("WarningCount() = %d; want 1", r.WarningCount())
	}
	if r.Count(SeveritySuccess) != 1 {
		t.Errorf("Count(success) = %d; want 1", r.Count(SeveritySuccess))
	}
}

func TestReport_MergeIsConcatenation(t *testing.T) {
	a := NewReport()
	a.Add(Error(KindStructure).Message("one").Build())

	b := NewReport()
	b.Add(Error(KindStructure).Message("one").Build())
	b.Add(Info(KindNaming).Message("two").Build())

	a.Merge(b)

	// Items are never deduplicated by the engine.
	if len(a.Items) != 3 {
		t.Errorf("merged item count = %d; want 3", len(a.Items))
	}
}

func TestReport_ConcurrentAdd(t *testing.T) {
	r := NewReport()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Add(Info(KindNaming).Message("x").Build())
			}
		}()
	}
	wg.Wait()

	if len(r.Items) != 1600 {
		t.Errorf("item count = %d; want 1600", len(r.Items))
	}
}

func TestReport_PoolReuse(t *testing.T) {
	r := AcquireReport()
	r.Add(Error(KindStructure).Message("e").Build())
	r.File = "x.bpmn"
	r.Release()

	r2 := AcquireReport()
	if len(r2.Items) != 0 || r2.File != "" {
		t.Error("reacquired report should be reset")
	}
	r2.Release()
}

func TestReport_Errors(t *testing.T) {
	r := NewReport()
	r.Add(Error(KindStructure).Message("e1").Build())
	r.Add(Warning(KindNaming).Message("w").Build())
	r.Add(Error(KindCoding).Message("e2").Build())

	errs := r.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() returned %d items; want 2", len(errs))
	}
	for _, item := range errs {
		if item.Severity != SeverityError {
			t.Errorf("Errors() returned severity %s", item.Severity)
		}
	}
}
