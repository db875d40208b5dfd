package process

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// ServiceTaskRule checks that a service task declares an implementation type
// and that the type satisfies the service-task contract of the configured
// API version.
type ServiceTaskRule struct{}

// NewServiceTaskRule creates the rule.
func NewServiceTaskRule() *ServiceTaskRule {
	return &ServiceTaskRule{}
}

// Name implements router.NodeRule.
func (r *ServiceTaskRule) Name() string { return "service-task-implementation" }

// Check implements router.NodeRule.
func (r *ServiceTaskRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.Implementation == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("service task %s declares no implementation class", node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}
	return []dsflint.Item{
		checkImplementation(ctx, proc, node, node.Implementation, r.Name(), capability.ClassServiceTask),
	}
}
