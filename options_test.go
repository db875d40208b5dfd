package dsflint

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if o.APIVersion != V1 {
		t.Errorf("APIVersion = %s; want %s", o.APIVersion, V1)
	}
	if !o.ValidateQuestionnaires || !o.ValidateCodings {
		t.Error("questionnaire and coding validation should default to enabled")
	}
	if o.WorkerCount <= 0 {
		t.Errorf("WorkerCount = %d; want > 0", o.WorkerCount)
	}
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	for _, opt := range []Option{
		WithAPIVersion(V2),
		WithQuestionnaires(false),
		WithCodings(false),
		WithWorkerCount(4),
		WithResolverCache(100),
		WithTypeCache(50),
	} {
		opt(o)
	}

	if o.APIVersion != V2 {
		t.Errorf("APIVersion = %s; want %s", o.APIVersion, V2)
	}
	if o.ValidateQuestionnaires || o.ValidateCodings {
		t.Error("validation flags should be disabled")
	}
	if o.WorkerCount != 4 || o.ResolverCacheSize != 100 || o.TypeCacheSize != 50 {
		t.Error("sizes not applied")
	}
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	o := DefaultOptions()
	WithWorkerCount(-1)(o)
	WithAPIVersion("9")(o)

	if o.WorkerCount <= 0 {
		t.Error("invalid worker count must not be applied")
	}
	if o.APIVersion != V1 {
		t.Error("invalid API version must not be applied")
	}
}
