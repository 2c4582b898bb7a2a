package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/rules/expr"
)

var (
	errFormIDMissing = errors.New("model: form id is required")
	errFieldsMissing = errors.New("model: form declares no fields")
)

// Validate checks a form definition for structural problems before it is
// instantiated: names, types, sections, options, and rule references.
func Validate(form FormModel) error {
	if strings.TrimSpace(form.ID) == "" {
		return errFormIDMissing
	}
	if len(form.Fields) == 0 {
		return errFieldsMissing
	}

	sections := make(map[string]struct{}, len(form.Sections))
	for _, section := range form.Sections {
		id := strings.TrimSpace(section.ID)
		if id == "" {
			return errors.New("model: section id is required")
		}
		if _, exists := sections[id]; exists {
			return fmt.Errorf("model: duplicate section %q", id)
		}
		sections[id] = struct{}{}
	}

	names := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		if err := validateField(field, sections); err != nil {
			return err
		}
		if _, exists := names[field.Name]; exists {
			return fmt.Errorf("model: duplicate field %q", field.Name)
		}
		names[field.Name] = struct{}{}
	}

	for _, field := range form.Fields {
		if err := validateRule(field, names); err != nil {
			return err
		}
	}
	return nil
}

func validateField(field Field, sections map[string]struct{}) error {
	name := strings.TrimSpace(field.Name)
	if name == "" {
		return errors.New("model: field name is required")
	}
	if name != field.Name {
		return fmt.Errorf("model: field %q has surrounding whitespace", field.Name)
	}
	if strings.HasPrefix(name, ReservedPrefix) {
		return fmt.Errorf("model: field %q uses the reserved %q prefix", name, ReservedPrefix)
	}
	if !field.Type.Valid() {
		return fmt.Errorf("model: field %q has unsupported type %q", name, field.Type)
	}
	if field.Type == FieldTypeSelect && len(field.Options) == 0 {
		return fmt.Errorf("model: select field %q declares no options", name)
	}
	if field.Section != "" {
		if _, ok := sections[field.Section]; !ok {
			return fmt.Errorf("model: field %q references unknown section %q", name, field.Section)
		}
	}
	return nil
}

func validateRule(field Field, names map[string]struct{}) error {
	rule := strings.TrimSpace(field.RequiredIf)
	if rule == "" {
		return nil
	}
	idents, err := expr.Identifiers(rule)
	if err != nil {
		return fmt.Errorf("model: field %q requiredIf: %w", field.Name, err)
	}
	if len(idents) == 0 {
		return fmt.Errorf("model: field %q requiredIf references no fields", field.Name)
	}
	for _, ident := range idents {
		if ident == field.Name {
			return fmt.Errorf("model: field %q requiredIf references itself", field.Name)
		}
		if _, ok := names[ident]; !ok {
			return fmt.Errorf("model: field %q requiredIf references unknown field %q", field.Name, ident)
		}
	}
	return nil
}
