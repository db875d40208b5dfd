package dsflint

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks linter performance metrics using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// File counts
	filesTotal  atomic.Uint64
	filesPassed atomic.Uint64

	// Timing (stored as nanoseconds)
	fileTimeTotal atomic.Uint64

	// Cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
	indexBuilds atomic.Uint64

	// Item counts by severity
	errorsTotal    atomic.Uint64
	warningsTotal  atomic.Uint64
	infosTotal     atomic.Uint64
	successesTotal atomic.Uint64

	// Per-rule-set timing
	ruleSetTiming sync.Map // map[string]*ruleSetMetrics
}

// ruleSetMetrics tracks metrics for a single rule set.
type ruleSetMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	itemsFound  atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordFile records a completed per-file validation.
func (m *Metrics) RecordFile(duration time.Duration, passed bool) {
	m.filesTotal.Add(1)
	if passed {
		m.filesPassed.Add(1)
	}
	m.fileTimeTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheHit records a resolver cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a resolver cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordIndexBuild records a per-kind resource index scan.
func (m *Metrics) RecordIndexBuild() {
	m.indexBuilds.Add(1)
}

// RecordItem records an item by severity.
func (m *Metrics) RecordItem(severity Severity) {
	switch severity {
	case SeverityError:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInfo:
		m.infosTotal.Add(1)
	case SeveritySuccess:
		m.successesTotal.Add(1)
	}
}

// RecordRuleSet records metrics for a rule-set evaluation.
func (m *Metrics) RecordRuleSet(name string, duration time.Duration, itemsFound int) {
	rm := m.getOrCreateRuleSetMetrics(name)
	rm.invocations.Add(1)
	rm.totalTime.Add(uint64(duration.Nanoseconds()))
	rm.itemsFound.Add(uint64(itemsFound))
}

func (m *Metrics) getOrCreateRuleSetMetrics(name string) *ruleSetMetrics {
	if v, ok := m.ruleSetTiming.Load(name); ok {
		return v.(*ruleSetMetrics)
	}
	rm := &ruleSetMetrics{}
	actual, _ := m.ruleSetTiming.LoadOrStore(name, rm)
	return actual.(*ruleSetMetrics)
}

// FilesTotal returns the total number of files validated.
func (m *Metrics) FilesTotal() uint64 {
	return m.filesTotal.Load()
}

// FilesPassed returns the number of files without errors.
func (m *Metrics) FilesPassed() uint64 {
	return m.filesPassed.Load()
}

// AverageFileTime returns the average per-file validation duration.
func (m *Metrics) AverageFileTime() time.Duration {
	total := m.filesTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.fileTimeTotal.Load() / total)
}

// CacheHits returns the total resolver cache hits.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the total resolver cache misses.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// CacheHitRate returns the cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// IndexBuilds returns the number of per-kind index scans performed.
func (m *Metrics) IndexBuilds() uint64 {
	return m.indexBuilds.Load()
}

// ErrorsTotal returns the total error items found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning items found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// RuleSetStats holds statistics for a single rule set.
type RuleSetStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	ItemsFound  uint64
}

// AllRuleSetStats returns statistics for all rule sets.
func (m *Metrics) AllRuleSetStats() []RuleSetStats {
	var stats []RuleSetStats
	m.ruleSetTiming.Range(func(key, value any) bool {
		rm := value.(*ruleSetMetrics)
		invocations := rm.invocations.Load()
		totalTime := rm.totalTime.Load()

		var avgTime time.Duration
		if invocations > 0 {
			avgTime = time.Duration(totalTime / invocations)
		}

		stats = append(stats, RuleSetStats{
			Name:        key.(string),
			Invocations: invocations,
			TotalTime:   time.Duration(totalTime),
			AvgTime:     avgTime,
			ItemsFound:  rm.itemsFound.Load(),
		})
		return true
	})
	return stats
}

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	FilesTotal  uint64 `json:"files_total"`
	FilesPassed uint64 `json:"files_passed"`

	AvgFileTimeNs uint64 `json:"avg_file_time_ns"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	IndexBuilds  uint64  `json:"index_builds"`

	ErrorsTotal    uint64 `json:"errors_total"`
	WarningsTotal  uint64 `json:"warnings_total"`
	InfosTotal     uint64 `json:"infos_total"`
	SuccessesTotal uint64 `json:"successes_total"`

	RuleSets []RuleSetStats `json:"rule_sets,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:      time.Now(),
		FilesTotal:     m.filesTotal.Load(),
		FilesPassed:    m.filesPassed.Load(),
		AvgFileTimeNs:  uint64(m.AverageFileTime().Nanoseconds()),
		CacheHits:      m.cacheHits.Load(),
		CacheMisses:    m.cacheMisses.Load(),
		CacheHitRate:   m.CacheHitRate(),
		IndexBuilds:    m.indexBuilds.Load(),
		ErrorsTotal:    m.errorsTotal.Load(),
		WarningsTotal:  m.warningsTotal.Load(),
		InfosTotal:     m.infosTotal.Load(),
		SuccessesTotal: m.successesTotal.Load(),
		RuleSets:       m.AllRuleSetStats(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.filesTotal.Store(0)
	m.filesPassed.Store(0)
	m.fileTimeTotal.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.indexBuilds.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)
	m.successesTotal.Store(0)

	m.ruleSetTiming.Range(func(key, _ any) bool {
		m.ruleSetTiming.Delete(key)
		return true
	})
}
