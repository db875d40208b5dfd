package dsflint

import (
	"sync"
)

// Report contains the outcome of validating one file or one plugin.
// Aggregation is pure concatenation; items are never removed or deduplicated.
// Use Release() to return it to the pool when done.
type Report struct {
	// Passed is true if no error items were found. Warnings and
	// informational items never affect pass/fail.
	Passed bool `json:"passed"`

	// Items contains all validation items in emission order.
	Items []Item `json:"items,omitempty"`

	// File is the file this report covers, empty for plugin-wide reports.
	File string `json:"file,omitempty"`

	// mu protects concurrent access to Items
	mu sync.Mutex
}

// reportPool holds reusable Report instances.
var reportPool = sync.Pool{
	New: func() any {
		return &Report{
			Items: make([]Item, 0, 32),
		}
	},
}

// AcquireReport gets a Report from the pool.
// The report starts as passed with no items.
func AcquireReport() *Report {
	r := reportPool.Get().(*Report)
	r.Reset()
	return r
}

// Release returns the Report to the pool.
// After calling Release, the Report must not be used.
func (r *Report) Release() {
	if r == nil {
		return
	}
	// Don't return reports with oversized item slices
	if cap(r.Items) <= 1024 {
		reportPool.Put(r)
	}
}

// Reset clears the report for reuse.
func (r *Report) Reset() {
	r.Passed = true
	r.Items = r.Items[:0]
	r.File = ""
}

// Add appends a validation item to the report.
// This method is thread-safe.
func (r *Report) Add(item Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Items = append(r.Items, item)
	if item.IsError() {
		r.Passed = false
	}
}

// AddAll appends multiple items to the report.
// This method is thread-safe.
func (r *Report) AddAll(items []Item) {
	if len(items) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Items = append(r.Items, items...)
	for _, item := range items {
		if item.IsError() {
			r.Passed = false
			break
		}
	}
}

// HasErrors returns true if there are any error items.
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.Items {
		if item.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of items with the given severity.
func (r *Report) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, item := range r.Items {
		if item.Severity == severity {
			count++
		}
	}
	return count
}

// ErrorCount returns the number of error items.
func (r *Report) ErrorCount() int {
	return r.Count(SeverityError)
}

// WarningCount returns the number of warning items.
func (r *Report) WarningCount() int {
	return r.Count(SeverityWarning)
}

// Errors returns all error items.
func (r *Report) Errors() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errors []Item
	for _, item := range r.Items {
		if item.IsError() {
			errors = append(errors, item)
		}
	}
	return errors
}

// Merge concatenates another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	other.mu.Lock()
	items := make([]Item, len(other.Items))
	copy(items, other.Items)
	other.mu.Unlock()

	r.AddAll(items)
}

// Clone creates a copy of the report (not pooled).
func (r *Report) Clone() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := &Report{
		Passed: r.Passed,
		Items:  make([]Item, len(r.Items)),
		File:   r.File,
	}
	copy(clone.Items, r.Items)
	return clone
}

// NewReport creates a new (non-pooled) report.
// Prefer AcquireReport() for better performance.
func NewReport() *Report {
	return &Report{
		Passed: true,
		Items:  make([]Item, 0, 8),
	}
}
