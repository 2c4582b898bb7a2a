package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/model"
)

// Overlay rewrites presentation attributes of a loaded form: titles, section
// names, labels, placeholders and option labels. It lets a deployment
// localise or reword a definition it does not own (for example one derived
// from an OpenAPI document) without touching field names or rules.
type Overlay struct {
	Form     FormOverlay             `yaml:"form"`
	Sections []model.Section         `yaml:"sections"`
	Fields   map[string]FieldOverlay `yaml:"fields"`
}

// FormOverlay overrides form-level text.
type FormOverlay struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// FieldOverlay overrides field-level text. Empty values keep the original.
type FieldOverlay struct {
	Label       string            `yaml:"label"`
	Placeholder string            `yaml:"placeholder"`
	Description string            `yaml:"description"`
	Section     string            `yaml:"section"`
	Options     map[string]string `yaml:"options"`
}

// ParseOverlay decodes an overlay document.
func ParseOverlay(data []byte) (Overlay, error) {
	var overlay Overlay
	if strings.TrimSpace(string(data)) == "" {
		return Overlay{}, fmt.Errorf("schema: overlay is empty")
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Overlay{}, fmt.Errorf("schema: parse overlay: %w", err)
	}
	return overlay, nil
}

// Decorate applies the overlay. Overlays naming unknown fields fail so
// stale overlays are noticed.
func (o Overlay) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	if o.Form.Title != "" {
		form.Title = o.Form.Title
	}
	if o.Form.Description != "" {
		form.Description = o.Form.Description
	}

	for _, section := range o.Sections {
		replaced := false
		for i := range form.Sections {
			if form.Sections[i].ID == section.ID {
				form.Sections[i].Title = section.Title
				replaced = true
			}
		}
		if !replaced {
			form.Sections = append(form.Sections, section)
		}
	}

	index := make(map[string]int, len(form.Fields))
	for i, field := range form.Fields {
		index[field.Name] = i
	}
	for name, patch := range o.Fields {
		i, ok := index[name]
		if !ok {
			return fmt.Errorf("schema: overlay references unknown field %q", name)
		}
		field := &form.Fields[i]
		if patch.Label != "" {
			field.Label = patch.Label
		}
		if patch.Placeholder != "" {
			field.Placeholder = patch.Placeholder
		}
		if patch.Description != "" {
			field.Description = patch.Description
		}
		if patch.Section != "" {
			field.Section = patch.Section
		}
		if len(patch.Options) > 0 && len(field.Options) > 0 {
			options := append([]model.Option(nil), field.Options...)
			for j := range options {
				if label, ok := patch.Options[options[j].Value]; ok {
					options[j].Label = label
				}
			}
			field.Options = options
		}
	}
	return nil
}
