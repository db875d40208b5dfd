package process

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// Field names of the message send configuration injected through
// extension fields.
const (
	fieldMessageName           = "messageName"
	fieldProfile               = "profile"
	fieldInstantiatesCanonical = "instantiatesCanonical"
)

// MessageSendRule checks message producing nodes: send tasks, message throw
// events and message end events. It verifies the implementation contract and
// that the configured message name, task profile and target process resolve
// against the shipped resources.
type MessageSendRule struct{}

// NewMessageSendRule creates the rule.
func NewMessageSendRule() *MessageSendRule {
	return &MessageSendRule{}
}

// Name implements router.NodeRule.
func (r *MessageSendRule) Name() string { return "message-send" }

// Check implements router.NodeRule.
func (r *MessageSendRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	impl := node.Implementation
	if node.Kind != bpmn.KindSendTask {
		// Throw and end events only send when they carry a message
		// event definition; a plain end event is not checked here.
		if node.Event == nil || node.Event.Kind != bpmn.EventDefMessage {
			return nil
		}
		impl = node.Event.Implementation
	}

	var items []dsflint.Item

	if impl == "" {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s %s declares no message send implementation class", node.Kind, node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	} else {
		items = append(items,
			checkImplementation(ctx, proc, node, impl, r.Name(), capability.ClassMessageSend))
	}

	items = append(items, r.checkTarget(ctx, proc, node)...)
	return items
}

// checkTarget validates the configured send target: the instantiated process,
// the task profile and the message name authorized by the target process.
func (r *MessageSendRule) checkTarget(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	var items []dsflint.Item

	target := node.Config[fieldInstantiatesCanonical]
	if target == "" {
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s %s declares no %s field", node.Kind, node.ID, fieldInstantiatesCanonical)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	} else if entry, ok := ctx.Index.Resolve(fhir.KindActivityDefinition, fhir.ParseCanonical(target)); !ok {
		items = append(items, dsflint.Error(dsflint.KindNotFound).
			Message(fmt.Sprintf("target process %s does not resolve to an activity definition", target)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	} else {
		items = append(items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("target process %s resolves to %s", target, entry.Resource.File)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
		items = append(items, r.checkMessageName(ctx, proc, node, entry.Resource)...)
	}

	profile := node.Config[fieldProfile]
	switch {
	case profile == "":
		items = append(items, dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s %s declares no %s field", node.Kind, node.ID, fieldProfile)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	case !ctx.Index.Exists(fhir.KindStructureDefinition, fhir.ParseCanonical(profile)):
		items = append(items, dsflint.Error(dsflint.KindNotFound).
			Message(fmt.Sprintf("task profile %s does not resolve to a structure definition", profile)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	default:
		items = append(items, dsflint.Success(dsflint.KindReference).
			Message(fmt.Sprintf("task profile %s resolves to a structure definition", profile)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build())
	}

	return items
}

// checkMessageName validates the configured message name against the target
// activity definition's authorizations.
func (r *MessageSendRule) checkMessageName(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node, target *fhir.Resource) []dsflint.Item {
	name := node.Config[fieldMessageName]
	if name == "" && node.Event != nil {
		name = node.Event.MessageName
	}
	if name == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s %s declares no %s field", node.Kind, node.ID, fieldMessageName)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}

	for _, ma := range target.MessageAuthorizations() {
		if ma.MessageName == name {
			return []dsflint.Item{dsflint.Success(dsflint.KindReference).
				Message(fmt.Sprintf("message %q is authorized by %s", name, target.File)).
				In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
		}
	}
	return []dsflint.Item{dsflint.Error(dsflint.KindReference).
		Message(fmt.Sprintf("message %q is not authorized by target activity definition %s", name, target.URL)).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
}

// MessageReceiveRule checks message consuming nodes: receive tasks and
// message catch events. The referenced message must be named and authorized
// for this process.
type MessageReceiveRule struct{}

// NewMessageReceiveRule creates the rule.
func NewMessageReceiveRule() *MessageReceiveRule {
	return &MessageReceiveRule{}
}

// Name implements router.NodeRule.
func (r *MessageReceiveRule) Name() string { return "message-receive" }

// Check implements router.NodeRule.
func (r *MessageReceiveRule) Check(ctx *router.Context, proc *bpmn.Process, node *bpmn.Node) []dsflint.Item {
	if node.Event == nil || node.Event.Kind != bpmn.EventDefMessage {
		if node.Kind == bpmn.KindReceiveTask {
			return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
				Message(fmt.Sprintf("receive task %s references no message", node.ID)).
				In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
		}
		return nil
	}

	name := node.Event.MessageName
	if name == "" {
		return []dsflint.Item{dsflint.Error(dsflint.KindConfiguration).
			Message(fmt.Sprintf("%s %s references a message without a name", node.Kind, node.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}

	if !messageAuthorized(ctx, proc.ID, name) {
		return []dsflint.Item{dsflint.Error(dsflint.KindReference).
			Message(fmt.Sprintf("message %q is not authorized by any activity definition of process %s", name, proc.ID)).
			In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
	}
	return []dsflint.Item{dsflint.Success(dsflint.KindReference).
		Message(fmt.Sprintf("message %q is authorized for process %s", name, proc.ID)).
		In(ctx.File).Process(proc.ID).Element(node.ID).Rule(r.Name()).Build()}
}
