package model

import "strings"

// FieldType is the simplified enum for intake-friendly field kinds. Checkbox
// is the only boolean kind; every other kind carries a raw string value.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
)

// ReservedPrefix marks payload keys owned by the relay (subject, template,
// captcha flag, formatted report). Field names must not use it.
const ReservedPrefix = "_"

// Valid reports whether the type is one of the known field kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeDate,
		FieldTypeNumber, FieldTypeSelect, FieldTypeTextArea, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// IsCheckbox reports whether the field carries a boolean value.
func (t FieldType) IsCheckbox() bool {
	return t == FieldTypeCheckbox
}

// Option is a single choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Section groups fields for rendering and for the formatted report.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Field models an individual input inside an intake form. RequiredIf holds a
// rule expression (see pkg/rules/expr) that, when set, overrides Required at
// runtime.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Section     string            `json:"section,omitempty" yaml:"section,omitempty"`
	Required    bool              `json:"required" yaml:"required"`
	RequiredIf  string            `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OptionLabel resolves the display label for a stored option value. Unknown
// values are returned unchanged.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if strings.TrimSpace(opt.Label) != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// FormModel is the top-level representation presenters and the submission
// pipeline consume.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section         `json:"sections,omitempty" yaml:"sections,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field with the given name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Section returns the section with the given id.
func (m FormModel) Section(id string) (Section, bool) {
	for _, section := range m.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}
