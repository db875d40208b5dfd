package worker

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

func TestPool_ProcessesAllFiles(t *testing.T) {
	var runs atomic.Int32
	p := NewPool(func(file string) *dsflint.Report {
		runs.Add(1)
		r := dsflint.NewReport()
		r.File = file
		if file == "bad.bpmn" {
			r.Add(dsflint.Error(dsflint.KindStructure).Message("broken").In(file).Build())
		}
		return r
	}, 4)

	files := []string{"a.bpmn", "b.bpmn", "bad.bpmn", "c.xml"}
	for _, f := range files {
		if !p.Submit(f) {
			t.Fatalf("Submit(%s) refused", f)
		}
	}

	results := p.CloseAndWait()
	if len(results) != len(files) {
		t.Fatalf("results = %d; want %d", len(results), len(files))
	}
	if runs.Load() != int32(len(files)) {
		t.Errorf("runs = %d; want %d", runs.Load(), len(files))
	}

	failed := 0
	for _, r := range results {
		if r.Report.HasErrors() {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed files = %d; want 1", failed)
	}
}

func TestPool_SubmitAllBeforeCollecting(t *testing.T) {
	p := NewPool(func(file string) *dsflint.Report {
		r := dsflint.NewReport()
		r.File = file
		return r
	}, 1)

	// Far more files than one worker's queue holds; submission must not
	// depend on results being collected in the meantime.
	done := make(chan []*JobResult)
	go func() {
		for i := 0; i < 64; i++ {
			p.Submit(fmt.Sprintf("file-%d.xml", i))
		}
		done <- p.CloseAndWait()
	}()

	select {
	case results := <-done:
		if len(results) != 64 {
			t.Errorf("results = %d; want 64", len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool stalled with all files submitted before collection")
	}
}

func TestPool_SubmitAfterCloseRefused(t *testing.T) {
	p := NewPool(func(string) *dsflint.Report { return dsflint.NewReport() }, 1)
	p.CloseAndWait()

	if p.Submit("late.bpmn") {
		t.Error("Submit after close must be refused")
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	p := NewPool(func(string) *dsflint.Report { return dsflint.NewReport() }, 0)
	defer p.CloseAndWait()

	if p.workers <= 0 {
		t.Errorf("workers = %d; want > 0", p.workers)
	}
}

func TestPool_Stats(t *testing.T) {
	p := NewPool(func(string) *dsflint.Report { return dsflint.NewReport() }, 2)
	p.Submit("a")
	p.Submit("b")
	p.CloseAndWait()

	submitted, completed := p.Stats()
	if submitted != 2 || completed != 2 {
		t.Errorf("Stats() = %d, %d; want 2, 2", submitted, completed)
	}
}
