// Package router dispatches parsed inputs to rule sets: process graphs to
// per-node-kind rules and resource documents to per-kind handlers.
package router

import (
	"go.uber.org/zap"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/index"
)

// Context carries the run-scoped collaborators rules check against.
// It is shared across all rules of a run and must be treated read-only.
type Context struct {
	// File is the path of the input currently being checked.
	File string

	Options dsflint.Options
	Index   *index.Resolver
	Types   *capability.Resolver
	Metrics *dsflint.Metrics
	Log     *zap.Logger

	// Processes holds the ids of all process definitions found in the
	// project, for resource-to-process reference checks.
	Processes []string
}

// HasProcess reports whether the project defines a process with the id.
func (c *Context) HasProcess(id string) bool {
	for _, p := range c.Processes {
		if p == id {
			return true
		}
	}
	return false
}

// WithFile returns a shallow copy of the context scoped to another file.
func (c *Context) WithFile(file string) *Context {
	cc := *c
	cc.File = file
	return &cc
}

// Logger returns the context logger, falling back to a no-op logger so
// rules never need a nil check.
func (c *Context) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
