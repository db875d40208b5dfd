package process

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// UserTaskRule checks that a user task binds a questionnaire through its
// form key and that a declared task listener satisfies a listener contract.
type UserTaskRule struct{}

// NewUserTaskRule creates the rule.
func NewUserTaskRule() *UserTaskRule {
	return &UserTaskRule{}
}

// Name implements router.NodeRule.
func (r *UserTaskRule) Name() string { return "user-task" }

// Check implements router.NodeRule.
func (r *UserTaskRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	var items []dsflint.Item

	formKey := node.Config["formKey"]
	switch {
	case formKey == "":
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("user task %s declares no form key", node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	case !ctx.Options.ValidateQuestionnaires:
		items = append(items, dsflint.Info(dsflint.KindReference).
			Message(fmt.Sprintf("form key %s not checked, questionnaire validation is disabled", formKey)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	case !ctx.Index.Exists(fhir.KindQuestionnaire, fhir.ParseCanonical(formKey)):
		items = append(items, dsflint.Error(dsflint.KindNotFound).
			Message(fmt.Sprintf("form key %s does not resolve to a questionnaire", formKey)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	default:
		items = append(items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("form key %s resolves to a questionnaire", formKey)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	}

	// A task listener is optional; when declared it must satisfy one of
	// the listener contracts.
	if node.Implementation != "" {
		items = append(items,
			checkImplementation(ctx, proc, node, node.Implementation, r.Name(), capability.ClassListener))
	}

	return items
}
