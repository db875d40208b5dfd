package router

import (
	"time"

	"go.uber.org/zap"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
)

// NodeRule checks one node of a process graph.
type NodeRule interface {
	// Name identifies the rule in timings and logs.
	Name() string

	// Check returns the findings for the node. Passing checks report
	// success items so the run records what held, not only what failed.
	Check(ctx *Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item
}

// ProcessRule checks a whole process graph, for findings that are not
// local to a single node.
type ProcessRule interface {
	Name() string
	Check(ctx *Context, proc *bpmn.Process) []dsflint.Item
}

// ProcessRouter routes each node of a process to the fixed rule set
// registered for its kind. Node kinds form a closed set; a kind with no
// registered rules produces no findings.
type ProcessRouter struct {
	nodeRules    map[bpmn.NodeKind][]NodeRule
	processRules []ProcessRule
}

// NewProcessRouter creates an empty process router.
func NewProcessRouter() *ProcessRouter {
	return &ProcessRouter{nodeRules: make(map[bpmn.NodeKind][]NodeRule)}
}

// Handle registers rules for a node kind. Rules run in registration order.
func (r *ProcessRouter) Handle(kind bpmn.NodeKind, rules ...NodeRule) {
	r.nodeRules[kind] = append(r.nodeRules[kind], rules...)
}

// HandleProcess registers a whole-graph rule.
func (r *ProcessRouter) HandleProcess(rules ...ProcessRule) {
	r.processRules = append(r.processRules, rules...)
}

// Route checks every node of the process plus the whole-graph rules and
// returns the aggregated findings.
func (r *ProcessRouter) Route(ctx *Context, proc *bpmn.Process) []dsflint.Item {
	var items []dsflint.Item

	for _, rule := range r.processRules {
		items = append(items, r.run(ctx, rule.Name(), func() []dsflint.Item {
			return rule.Check(ctx, proc)
		})...)
	}

	for _, node := range proc.Nodes {
		for _, rule := range r.nodeRules[node.Kind] {
			node := node
			items = append(items, r.run(ctx, rule.Name(), func() []dsflint.Item {
				return rule.Check(ctx, proc, node)
			})...)
		}
	}
	return items
}

// run executes one rule with timing and debug logging.
func (r *ProcessRouter) run(ctx *Context, name string, fn func() []dsflint.Item) []dsflint.Item {
	start := time.Now()
	items := fn()
	if ctx.Metrics != nil {
		ctx.Metrics.RecordRuleSet(name, time.Since(start), len(items))
	}
	ctx.Logger().Debug("rule checked",
		zap.String("rule", name),
		zap.String("file", ctx.File),
		zap.Int("items", len(items)))
	return items
}
