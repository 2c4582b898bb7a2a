package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/model"
)

// Vendor extensions read from OpenAPI documents.
const (
	ExtSections   = "x-intake-sections"
	ExtSection    = "x-intake-section"
	ExtWidget     = "x-intake-widget"
	ExtRequiredIf = "x-intake-required-if"
	ExtOrder      = "x-intake-order"
	ExtLabel      = "x-intake-label"
	ExtOptions    = "x-intake-option-labels"
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// DecodeOpenAPI builds a form from the request body of the operation with
// the given id. An empty id selects the only operation carrying a request
// body.
func DecodeOpenAPI(ctx context.Context, doc Document, operationID string) (model.FormModel, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("schema: load openapi %s: %w", doc.Location(), err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return model.FormModel{}, errors.New("schema: openapi document does not contain any paths")
	}

	op, err := findOperation(spec, operationID)
	if err != nil {
		return model.FormModel{}, err
	}
	body := requestSchema(op)
	if body == nil {
		return model.FormModel{}, fmt.Errorf("schema: operation %q has no request body schema", op.OperationID)
	}

	form := model.FormModel{
		ID:          op.OperationID,
		Title:       op.Summary,
		Description: op.Description,
		Sections:    sectionsExtension(op.Extensions[ExtSections]),
	}
	if form.Title == "" {
		form.Title = body.Title
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	type ordered struct {
		field model.Field
		order int
	}
	var fields []ordered
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		field := model.Field{
			Name:        name,
			Type:        fieldType(prop),
			Label:       stringExtension(prop.Extensions, ExtLabel),
			Description: prop.Description,
			Section:     stringExtension(prop.Extensions, ExtSection),
			Required:    required[name],
			RequiredIf:  stringExtension(prop.Extensions, ExtRequiredIf),
			Options:     enumOptions(prop),
		}
		if field.Label == "" {
			field.Label = prop.Title
		}
		if example, ok := prop.Example.(string); ok {
			field.Placeholder = example
		}
		order, ok := intExtension(prop.Extensions, ExtOrder)
		if !ok {
			order = int(^uint(0) >> 1)
		}
		fields = append(fields, ordered{field: field, order: order})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order == fields[j].order {
			return fields[i].field.Name < fields[j].field.Name
		}
		return fields[i].order < fields[j].order
	})
	for _, entry := range fields {
		form.Fields = append(form.Fields, entry.field)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, error) {
	var candidates []*openapi3.Operation
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		item := paths[key]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch} {
			if op == nil {
				continue
			}
			if operationID != "" {
				if op.OperationID == operationID {
					return op, nil
				}
				continue
			}
			if requestSchema(op) != nil {
				candidates = append(candidates, op)
			}
		}
	}
	switch {
	case operationID != "":
		return nil, fmt.Errorf("schema: operation %q not found", operationID)
	case len(candidates) == 1:
		return candidates[0], nil
	case len(candidates) == 0:
		return nil, errors.New("schema: no operation with a request body")
	default:
		return nil, errors.New("schema: several operations carry a request body; set an operation id")
	}
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldType(prop *openapi3.Schema) model.FieldType {
	if widget := model.FieldType(stringExtension(prop.Extensions, ExtWidget)); widget.Valid() {
		return widget
	}
	switch {
	case prop.Type.Is("boolean"):
		return model.FieldTypeCheckbox
	case prop.Type.Is("integer"), prop.Type.Is("number"):
		return model.FieldTypeNumber
	case len(prop.Enum) > 0:
		return model.FieldTypeSelect
	}
	switch prop.Format {
	case "email":
		return model.FieldTypeEmail
	case "date":
		return model.FieldTypeDate
	case "phone", "tel":
		return model.FieldTypeTel
	}
	return model.FieldTypeText
}

func enumOptions(prop *openapi3.Schema) []model.Option {
	if len(prop.Enum) == 0 {
		return nil
	}
	labels, _ := prop.Extensions[ExtOptions].(map[string]any)
	options := make([]model.Option, 0, len(prop.Enum))
	for _, raw := range prop.Enum {
		value := fmt.Sprint(raw)
		label, _ := labels[value].(string)
		options = append(options, model.Option{Value: value, Label: label})
	}
	return options
}

func sectionsExtension(raw any) []model.Section {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	sections := make([]model.Section, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["id"].(string)
		title, _ := entry["title"].(string)
		if strings.TrimSpace(id) == "" {
			continue
		}
		sections = append(sections, model.Section{ID: id, Title: title})
	}
	return sections
}

func stringExtension(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
