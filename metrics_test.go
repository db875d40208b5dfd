package dsflint

import (
	"testing"
	"time"
)

func TestMetrics_RecordFile(t *testing.T) {
	m := NewMetrics()
	m.RecordFile(10*time.Millisecond, true)
	m.RecordFile(20*time.Millisecond, false)

	if m.FilesTotal() != 2 {
		t.Errorf("FilesTotal() = %d; want 2", m.FilesTotal())
	}
	if m.FilesPassed() != 1 {
		t.Errorf("FilesPassed() = %d; want 1", m.FilesPassed())
	}
	if m.AverageFileTime() != 15*time.Millisecond {
		t.Errorf("AverageFileTime() = %v; want 15ms", m.AverageFileTime())
	}
}

func TestMetrics_CacheHitRate(t *testing.T) {
	m := NewMetrics()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	if got := m.CacheHitRate(); got != 0.75 {
		t.Errorf("CacheHitRate() = %f; want 0.75", got)
	}
}

func TestMetrics_RecordItem(t *testing.T) {
	m := NewMetrics()
	m.RecordItem(SeverityError)
	m.RecordItem(SeverityError)
	m.RecordItem(SeverityWarning)

	if m.ErrorsTotal() != 2 {
		t.Errorf("ErrorsTotal() = %d; want 2", m.ErrorsTotal())
	}
	if m.WarningsTotal() != 1 {
		t.Errorf("WarningsTotal() = %d; want 1", m.WarningsTotal())
	}
}

func TestMetrics_RuleSetStats(t *testing.T) {
	m := NewMetrics()
	m.RecordRuleSet("service-task-implementation", 5*time.Millisecond, 2)
	m.RecordRuleSet("service-task-implementation", 15*time.Millisecond, 1)
	m.RecordRuleSet("element-naming", time.Millisecond, 1)

	stats := m.AllRuleSetStats()
	if len(stats) != 2 {
		t.Fatalf("AllRuleSetStats() returned %d rule sets; want 2", len(stats))
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordFile(time.Millisecond, true)
	m.RecordCacheHit()
	m.Reset()

	if m.FilesTotal() != 0 || m.CacheHits() != 0 {
		t.Error("Reset() should zero all counters")
	}
}
