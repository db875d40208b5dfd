package process

import (
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// processAuthorizations returns the message authorizations declared by
// activity definitions whose process URL derives the given process key.
func processAuthorizations(ctx *router.Context, processID string) []fhir.MessageAuthorization {
	var out []fhir.MessageAuthorization
	for _, ad := range ctx.Index.All(fhir.KindActivityDefinition) {
		if fhir.ProcessKey(ad.URL) != processID {
			continue
		}
		out = append(out, ad.MessageAuthorizations()...)
	}
	return out
}

// messageAuthorized reports whether some activity definition of the process
// authorizes the message name.
func messageAuthorized(ctx *router.Context, processID, messageName string) bool {
	for _, ma := range processAuthorizations(ctx, processID) {
		if ma.MessageName == messageName {
			return true
		}
	}
	return false
}
