package process

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// NamingRule checks that activities carry a human-readable name.
type NamingRule struct{}

// NewNamingRule creates the rule.
func NewNamingRule() *NamingRule {
	return &NamingRule{}
}

// Name implements router.NodeRule.
func (r *NamingRule) Name() string { return "element-naming" }

// Check implements router.NodeRule.
func (r *NamingRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.Name == "" {
		return []dsflint.Item{dsflint.Warning(dsflint.KindNaming).
			Message(fmt.Sprintf("%s %s has no name", node.Kind, node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}
	return []dsflint.Item{dsflint.Success(dsflint.KindNaming).
		Message(fmt.Sprintf("%s %s is named %q", node.Kind, node.ID, node.Name)).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
}
