package process

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// StartEventRule checks a process start event. A message start must carry a
// named, authorized message; a timer start must carry a timer expression.
type StartEventRule struct{}

// NewStartEventRule creates the rule.
func NewStartEventRule() *StartEventRule {
	return &StartEventRule{}
}

// Name implements router.NodeRule.
func (r *StartEventRule) Name() string { return "start-event" }

// Check implements router.NodeRule.
func (r *StartEventRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.Event == nil {
		// Plain none-start events are valid for subprocess starts.
		return nil
	}

	switch node.Event.Kind {
	case bpmn.EventDefMessage:
		name := node.Event.MessageName
		if name == "" {
			return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
				Message(fmt.Sprintf("message start event %s references a message without a name", node.ID)).
				In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
		}
		if !messageAuthorized(ctx, proc.ID, name) {
			return []dsflint.Item{dsflint.Error(dsflint.KindReference).
				Message(fmt.Sprintf("start message %q is not authorized by any activity definition of process %s", name, proc.ID)).
				In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
		}
		return []dsflint.Item{dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("start message %q is authorized for process %s", name, proc.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}

	case bpmn.EventDefTimer:
		return checkTimer(ctx, proc, node, r.Name())
	}
	return nil
}

// TimerRule checks timer catch and boundary events for a timer expression.
type TimerRule struct{}

// NewTimerRule creates the rule.
func NewTimerRule() *TimerRule {
	return &TimerRule{}
}

// Name implements router.NodeRule.
func (r *TimerRule) Name() string { return "timer-event" }

// Check implements router.NodeRule.
func (r *TimerRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.Event == nil || node.Event.Kind != bpmn.EventDefTimer {
		return nil
	}
	return checkTimer(ctx, proc, node, r.Name())
}

func checkTimer(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node, rule string) []dsflint.Item {
	if node.Event.TimerExpression == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("timer event %s declares no timer expression", node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(rule).Build()}
	}
	return []dsflint.Item{dsflint.Success(dsflint.KindConfiguration).
		Message(fmt.Sprintf("timer event %s declares expression %q", node.ID, node.Event.TimerExpression)).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(rule).Build()}
}

// FlowRule checks that sequence flows connect two elements.
type FlowRule struct{}

// NewFlowRule creates the rule.
func NewFlowRule() *FlowRule {
	return &FlowRule{}
}

// Name implements router.NodeRule.
func (r *FlowRule) Name() string { return "sequence-flow" }

// Check implements router.NodeRule.
func (r *FlowRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.SourceRef == "" || node.TargetRef == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindStructure).
			Message(fmt.Sprintf("sequence flow %s is not connected on both ends", node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}
	return []dsflint.Item{dsflint.Success(dsflint.KindStructure).
		Message(fmt.Sprintf("sequence flow %s connects %s to %s", node.ID, node.SourceRef, node.TargetRef)).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
}
