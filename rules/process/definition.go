package process

import (
	"fmt"
	"regexp"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// processKeyPattern is the expected shape of a deployable process id:
// organization prefix, underscore, process name.
var processKeyPattern = regexp.MustCompile(`^[a-z0-9]+_[A-Za-z][A-Za-z0-9]*$`)

// DefinitionRule checks the process definition itself: id shape and the
// version tag placeholder.
type DefinitionRule struct{}

// NewDefinitionRule creates the rule.
func NewDefinitionRule() *DefinitionRule {
	return &DefinitionRule{}
}

// Name implements router.ProcessRule.
func (r *DefinitionRule) Name() string { return "process-definition" }

// Check implements router.ProcessRule.
func (r *DefinitionRule) Check(ctx *router.Context, proc *bpmn.Process) []dsflint.Item {
	var items []dsflint.Item

	switch {
	case proc.ID == "":
		items = append(items, dsflint.Error(dsflint.KindNaming).
			Message("process has no id").
			In(ctx.File).Rule(r.Name()).Build())
	case !processKeyPattern.MatchString(proc.ID):
		items = append(items, dsflint.Warning(dsflint.KindNaming).
			Message(fmt.Sprintf("process id %q does not follow the <organization>_<name> convention", proc.ID)).
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	default:
		items = append(items, dsflint.Success(dsflint.KindNaming).
			Message(fmt.Sprintf("process id %q follows the naming convention", proc.ID)).
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	}

	switch proc.VersionTag {
	case "":
		items = append(items, dsflint.Warning(dsflint.KindConfiguration).
			Message("process declares no version tag").
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	case "#{version}":
		items = append(items, dsflint.Success(dsflint.KindPlaceholder).
			Message("process version tag uses the #{version} placeholder").
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	default:
		items = append(items, dsflint.Warning(dsflint.KindPlaceholder).
			Message(fmt.Sprintf("process version tag %q should be the #{version} placeholder", proc.VersionTag)).
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	}

	return items
}

// MessageDeclarationRule checks that every message name the process graph
// references is authorized by an activity definition of this process.
type MessageDeclarationRule struct{}

// NewMessageDeclarationRule creates the rule.
func NewMessageDeclarationRule() *MessageDeclarationRule {
	return &MessageDeclarationRule{}
}

// Name implements router.ProcessRule.
func (r *MessageDeclarationRule) Name() string { return "process-messages" }

// Check implements router.ProcessRule.
func (r *MessageDeclarationRule) Check(ctx *router.Context, proc *bpmn.Process) []dsflint.Item {
	var items []dsflint.Item
	for _, name := range proc.MessageNames() {
		if messageAuthorized(ctx, proc.ID, name) {
			items = append(items, dsflint.Success(dsflint.KindReference).
				Message(fmt.Sprintf("message %q is authorized by an activity definition of process %s", name, proc.ID)).
				In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
			continue
		}
		items = append(items, dsflint.Error(dsflint.KindReference).
			Message(fmt.Sprintf("message %q is not authorized by any activity definition of process %s", name, proc.ID)).
			In(ctx.File).Process(proc.ID).Rule(r.Name()).Build())
	}
	return items
}
