package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ExtensionNamespace prefixes every vendor extension the decoder reads.
const ExtensionNamespace = "x-intake"

var (
	operationExtensions = map[string]bool{ExtSections: true}
	propertyExtensions  = map[string]bool{
		ExtSection:    true,
		ExtWidget:     true,
		ExtRequiredIf: true,
		ExtOrder:      true,
		ExtLabel:      true,
		ExtOptions:    true,
	}
)

// Violation is an unsupported or malformed x-intake extension.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// LintExtensions reports x-intake extensions the OpenAPI decoder would
// ignore or misread. Native YAML documents have no extensions and yield no
// violations.
func LintExtensions(ctx context.Context, doc Document) ([]Violation, error) {
	if doc.Format() != FormatOpenAPI {
		return nil, nil
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi %s: %w", doc.Location(), err)
	}
	if spec.Paths == nil {
		return nil, nil
	}

	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []Violation
	for _, path := range keys {
		ops := paths[path].Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := ops[method]
			name := op.OperationID
			if name == "" {
				name = method + " " + path
			}
			base := []string{"operation", name}
			out = append(out, lintExtensions(base, op.Extensions, operationExtensions)...)

			body := requestSchema(op)
			if body == nil {
				continue
			}
			props := make([]string, 0, len(body.Properties))
			for prop := range body.Properties {
				props = append(props, prop)
			}
			sort.Strings(props)
			for _, prop := range props {
				ref := body.Properties[prop]
				if ref == nil || ref.Value == nil {
					continue
				}
				out = append(out, lintExtensions(appendPath(base, "properties."+prop), ref.Value.Extensions, propertyExtensions)...)
			}
		}
	}
	return out, nil
}

func lintExtensions(path []string, extensions map[string]any, allowed map[string]bool) []Violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		if strings.HasPrefix(key, ExtensionNamespace) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out []Violation
	location := strings.Join(path, " > ")
	for _, key := range keys {
		if !allowed[key] {
			out = append(out, Violation{Location: location, Message: fmt.Sprintf("unsupported extension %q here (supported: %s)", key, strings.Join(sortedKeys(allowed), ", "))})
			continue
		}
		if msg := checkExtensionValue(key, extensions[key]); msg != "" {
			out = append(out, Violation{Location: location, Message: msg})
		}
	}
	return out
}

func checkExtensionValue(key string, value any) string {
	switch key {
	case ExtOrder:
		if _, ok := value.(float64); !ok {
			return fmt.Sprintf("%s must be a number (got %T)", key, value)
		}
	case ExtSections:
		if _, ok := value.([]any); !ok {
			return fmt.Sprintf("%s must be a list of {id, title} objects (got %T)", key, value)
		}
	case ExtOptions:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Sprintf("%s must map option values to labels (got %T)", key, value)
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string (got %T)", key, value)
		}
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}
