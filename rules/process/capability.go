package process

import (
	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// checkImplementation resolves the node's implementation type against the
// candidate contracts of its element class and converts the resolution into
// exactly one item. Not-found and not-satisfied stay distinct outcomes.
func checkImplementation(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node,
	typeName, rule string, class capability.ElementClass) dsflint.Item {

	res := ctx.Types.Resolve(typeName, ctx.Options.APIVersion, class)

	var b *dsflint.ItemBuilder
	switch res.Outcome {
	case capability.OutcomeSatisfied:
		b = dsflint.Success(dsflint.KindCapability)
	case capability.OutcomeNotFound:
		b = dsflint.Error(dsflint.KindNotFound)
	default:
		b = dsflint.Error(dsflint.KindCapability)
	}
	return b.Message(res.Message()).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(rule).Build()
}
