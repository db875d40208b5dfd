package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ParseJSON parses a FHIR JSON resource and normalizes it into the same
// Element shape ParseXML produces: scalar fields become child elements
// carrying a "value" attribute, arrays become repeated children, and the
// resourceType field names the root element.
//
// Past this normalization the engine is encoding-agnostic.
func ParseJSON(data []byte) (*Element, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	resourceType, _ := obj["resourceType"].(string)
	if resourceType == "" {
		return nil, fmt.Errorf("missing resourceType")
	}

	root := &Element{Name: resourceType}
	appendObject(root, obj)
	return root, nil
}

// appendObject converts the fields of a JSON object into children of parent.
// Field order in JSON objects is not preserved by encoding/json, so keys are
// sorted for deterministic output.
func appendObject(parent *Element, obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k == "resourceType" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		appendValue(parent, k, obj[k])
	}
}

// appendValue converts one JSON value into one or more child elements.
func appendValue(parent *Element, name string, v any) {
	switch val := v.(type) {
	case map[string]any:
		child := &Element{Name: name}
		appendObject(child, val)
		parent.Children = append(parent.Children, child)
	case []any:
		for _, item := range val {
			appendValue(parent, name, item)
		}
	default:
		parent.Children = append(parent.Children, &Element{
			Name:  name,
			Attrs: map[string]string{"value": scalarString(val)},
		})
	}
}

// scalarString renders a JSON scalar the way FHIR XML would.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		// JSON numbers arrive as float64; integers must not gain a decimal point.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
