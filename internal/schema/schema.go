// Package schema validates tool arguments against a small JSON Schema
// subset: object root, required keys, primitive and array element types,
// and additionalProperties. Deeper structures declared as plain "object"
// are accepted opaquely.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks args against the declared parameter schema and returns
// a single error joining every violation found. A nil or empty schema
// accepts any arguments.
func Validate(s map[string]any, args map[string]any) error {
	if len(s) == 0 {
		return nil
	}

	var violations []string

	for _, field := range requiredFields(s) {
		if _, ok := args[field]; !ok {
			violations = append(violations, fmt.Sprintf("missing required argument %q", field))
		}
	}

	properties, hasProperties := asMap(s["properties"])
	additionalAllowed := true
	if v, ok := s["additionalProperties"].(bool); ok {
		additionalAllowed = v
	}

	for _, key := range sortedKeys(args) {
		value := args[key]
		propSchema, known := properties[key]
		if !known {
			if hasProperties && !additionalAllowed {
				violations = append(violations, fmt.Sprintf("unknown argument %q", key))
			}
			continue
		}
		if msg := checkProperty(key, propSchema, value); msg != "" {
			violations = append(violations, msg)
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("invalid arguments: %s", strings.Join(violations, "; "))
	}
	return nil
}

func checkProperty(key string, propSchema, value any) string {
	prop, ok := asMap(propSchema)
	if !ok {
		return ""
	}
	typeName, ok := prop["type"].(string)
	if !ok {
		return ""
	}
	switch typeName {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("argument %q must be a string", key)
		}
	case "number":
		if !isNumber(value) {
			return fmt.Sprintf("argument %q must be a number", key)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("argument %q must be a boolean", key)
		}
	case "array":
		items, ok := value.([]any)
		if !ok {
			return fmt.Sprintf("argument %q must be an array", key)
		}
		if itemType := arrayItemType(prop); itemType != "" {
			for i, item := range items {
				if !matchesPrimitive(itemType, item) {
					return fmt.Sprintf("argument %q element %d must be a %s", key, i, itemType)
				}
			}
		}
	}
	// "object" and unrecognized types are accepted opaquely.
	return ""
}

func requiredFields(s map[string]any) []string {
	switch v := s["required"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if field, ok := item.(string); ok {
				out = append(out, field)
			}
		}
		return out
	default:
		return nil
	}
}

func arrayItemType(prop map[string]any) string {
	items, ok := asMap(prop["items"])
	if !ok {
		return ""
	}
	itemType, _ := items["type"].(string)
	return itemType
}

func matchesPrimitive(expected string, value any) bool {
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		return isNumber(value)
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func asMap(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
