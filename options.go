package dsflint

import (
	"runtime"
)

// Option configures the linter.
type Option func(*Options)

// Options holds all configuration for a linter run.
type Options struct {
	// APIVersion is the default process-plugin API version assumed when a
	// plugin does not declare one.
	APIVersion APIVersion

	// Validation flags
	ValidateQuestionnaires bool
	ValidateCodings        bool

	// Performance
	WorkerCount int

	// Cache sizes
	ResolverCacheSize int
	TypeCacheSize     int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		APIVersion: V1,

		ValidateQuestionnaires: true,
		ValidateCodings:        true,

		WorkerCount: runtime.NumCPU(),

		ResolverCacheSize: 1000,
		TypeCacheSize:     500,
	}
}

// WithAPIVersion sets the default process-plugin API version.
func WithAPIVersion(v APIVersion) Option {
	return func(o *Options) {
		if v.IsValid() {
			o.APIVersion = v
		}
	}
}

// WithQuestionnaires enables or disables Questionnaire validation.
func WithQuestionnaires(enable bool) Option {
	return func(o *Options) {
		o.ValidateQuestionnaires = enable
	}
}

// WithCodings enables or disables coding-system membership validation.
func WithCodings(enable bool) Option {
	return func(o *Options) {
		o.ValidateCodings = enable
	}
}

// WithWorkerCount sets the number of workers for parallel file validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithResolverCache sets the cross-reference resolver cache size.
func WithResolverCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ResolverCacheSize = size
		}
	}
}

// WithTypeCache sets the implementation-type load cache size.
func WithTypeCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.TypeCacheSize = size
		}
	}
}
