package bpmn

import (
	"fmt"
	"io"

	"github.com/datasharingframework/dsf-linter-sub005/model"
)

// elementKinds maps BPMN element names to node kinds.
var elementKinds = map[string]NodeKind{
	"serviceTask":            KindServiceTask,
	"userTask":               KindUserTask,
	"sendTask":               KindSendTask,
	"receiveTask":            KindReceiveTask,
	"startEvent":             KindStartEvent,
	"endEvent":               KindEndEvent,
	"intermediateThrowEvent": KindIntermediateThrowEvent,
	"intermediateCatchEvent": KindIntermediateCatchEvent,
	"boundaryEvent":          KindBoundaryEvent,
	"exclusiveGateway":       KindExclusiveGateway,
	"parallelGateway":        KindParallelGateway,
	"eventBasedGateway":      KindEventBasedGateway,
	"sequenceFlow":           KindSequenceFlow,
	"subProcess":             KindSubProcess,
	"callActivity":           KindCallActivity,
}

// Parse reads a BPMN file and builds its process graphs.
// A parse error means the file never reaches the router; the caller converts
// it into a single unparsable-file item.
func Parse(r io.Reader) (*Definitions, error) {
	root, err := model.ParseXML(r)
	if err != nil {
		return nil, err
	}
	return FromTree(root)
}

// FromTree builds process graphs from an already-parsed document tree.
func FromTree(root *model.Element) (*Definitions, error) {
	if root.Name != "definitions" {
		return nil, fmt.Errorf("not a BPMN file: root element is %q", root.Name)
	}

	// Message and signal names are declared at definitions level and
	// referenced by id from event definitions.
	messages := make(map[string]string)
	signals := make(map[string]string)
	for _, m := range root.ChildrenNamed("message") {
		messages[m.Attr("id")] = m.Attr("name")
	}
	for _, s := range root.ChildrenNamed("signal") {
		signals[s.Attr("id")] = s.Attr("name")
	}

	defs := &Definitions{}
	for _, proc := range root.ChildrenNamed("process") {
		p := &Process{
			ID:         proc.Attr("id"),
			Name:       proc.Attr("name"),
			VersionTag: proc.Attr("versionTag"),
		}
		collectNodes(p, proc, nil, messages, signals)
		defs.Processes = append(defs.Processes, p)
	}

	if len(defs.Processes) == 0 {
		return nil, fmt.Errorf("no process definition found")
	}
	return defs, nil
}

// collectNodes appends every recognized node below container to the process,
// recursing into sub-processes with the parent pointer set.
func collectNodes(p *Process, container *model.Element, parent *Node, messages, signals map[string]string) {
	for _, el := range container.Children {
		kind, ok := elementKinds[el.Name]
		if !ok {
			continue
		}

		n := &Node{
			ID:     el.Attr("id"),
			Name:   el.Attr("name"),
			Kind:   kind,
			Parent: parent,
		}

		switch kind {
		case KindSequenceFlow:
			n.SourceRef = el.Attr("sourceRef")
			n.TargetRef = el.Attr("targetRef")
			if cond := el.Child("conditionExpression"); cond != nil {
				n.Condition = cond.Value()
			}
		case KindServiceTask, KindSendTask, KindReceiveTask:
			n.Implementation = el.Attr("class")
		case KindUserTask:
			n.Implementation = taskListenerClass(el)
		}

		n.Config = extractConfig(el)
		n.Event = extractEventSpec(el, messages, signals)

		// User tasks bind their questionnaire through the form key.
		if kind == KindUserTask {
			if fk := el.Attr("formKey"); fk != "" {
				if n.Config == nil {
					n.Config = make(map[string]string)
				}
				n.Config["formKey"] = fk
			}
		}

		// Receive tasks reference their message by attribute, not by a
		// nested event definition.
		if kind == KindReceiveTask && n.Event == nil {
			if ref := el.Attr("messageRef"); ref != "" {
				n.Event = &EventSpec{Kind: EventDefMessage, MessageName: messages[ref]}
			}
		}

		p.Nodes = append(p.Nodes, n)

		if kind == KindSubProcess {
			collectNodes(p, el, n, messages, signals)
		}
	}
}

// extractConfig collects injected field values and extension properties.
func extractConfig(el *model.Element) map[string]string {
	ext := el.Child("extensionElements")
	if ext == nil {
		return nil
	}

	cfg := make(map[string]string)
	for _, field := range ext.ChildrenNamed("field") {
		name := field.Attr("name")
		if name == "" {
			continue
		}
		if s := field.Child("string"); s != nil {
			cfg[name] = s.Value()
		} else if expr := field.Child("expression"); expr != nil {
			cfg[name] = expr.Value()
		} else {
			cfg[name] = field.Attr("stringValue")
		}
	}
	if props := ext.Child("properties"); props != nil {
		for _, prop := range props.ChildrenNamed("property") {
			if name := prop.Attr("name"); name != "" {
				cfg[name] = prop.Attr("value")
			}
		}
	}

	if len(cfg) == 0 {
		return nil
	}
	return cfg
}

// taskListenerClass returns the class of the first task listener, if any.
func taskListenerClass(el *model.Element) string {
	ext := el.Child("extensionElements")
	if ext == nil {
		return ""
	}
	for _, l := range ext.ChildrenNamed("taskListener") {
		if class := l.Attr("class"); class != "" {
			return class
		}
	}
	return ""
}

// extractEventSpec builds the structural sub-configuration of an event node.
// Returns nil when the element declares no event definition.
func extractEventSpec(el *model.Element, messages, signals map[string]string) *EventSpec {
	if def := el.Child("timerEventDefinition"); def != nil {
		spec := &EventSpec{Kind: EventDefTimer}
		for _, expr := range []string{"timeDuration", "timeDate", "timeCycle"} {
			if v := def.Find(expr).Value(); v != "" {
				spec.TimerExpression = v
				break
			}
		}
		return spec
	}
	if def := el.Child("messageEventDefinition"); def != nil {
		return &EventSpec{
			Kind:           EventDefMessage,
			MessageName:    messages[def.Attr("messageRef")],
			Implementation: def.Attr("class"),
		}
	}
	if def := el.Child("signalEventDefinition"); def != nil {
		return &EventSpec{
			Kind:       EventDefSignal,
			SignalName: signals[def.Attr("signalRef")],
		}
	}
	if def := el.Child("conditionalEventDefinition"); def != nil {
		return &EventSpec{
			Kind:      EventDefConditional,
			Condition: def.Find("condition").Value(),
		}
	}
	if el.Child("errorEventDefinition") != nil {
		return &EventSpec{Kind: EventDefError}
	}
	return nil
}
