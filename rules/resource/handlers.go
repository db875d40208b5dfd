// Package resource contains the rule sets applied to resource documents:
// metadata and placeholder conventions, slice-bound declarations, coding
// membership and the resource-to-process reference checks.
package resource

import (
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// Register wires the fixed handler constructor list into the router.
// One handler per document kind; a second registration for a kind fails.
func Register(r *router.DocumentRouter) error {
	handlers := []router.ResourceHandler{
		NewActivityDefinitionHandler(),
		NewTaskHandler(),
		NewStructureDefinitionHandler(),
		NewValueSetHandler(),
		NewCodeSystemHandler(),
		NewQuestionnaireHandler(),
	}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}
