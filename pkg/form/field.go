package form

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
)

// Validity is the derived validation state of a field.
type Validity int

const (
	// Untouched fields have not been validated since creation or reset.
	Untouched Validity = iota
	// Valid fields passed their last validation.
	Valid
	// Invalid fields failed their last validation.
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Field is a snapshot of a single form field: its definition plus the
// runtime value, requiredness and validity. Checkbox fields carry their state
// in Checked; Value keeps whatever raw string the presentation layer
// supplied and never decides validity for them.
type Field struct {
	Def      model.Field
	Value    string
	Checked  bool
	Required bool
	Validity Validity
}

// Name returns the field identifier.
func (f Field) Name() string { return f.Def.Name }

// IsCheckbox reports whether the field is boolean.
func (f Field) IsCheckbox() bool { return f.Def.Type.IsCheckbox() }

// IsEmpty reports whether the field holds no usable value.
func (f Field) IsEmpty() bool {
	if f.IsCheckbox() {
		return !f.Checked
	}
	return strings.TrimSpace(f.Value) == ""
}

// RecordValue is the string captured in an IntakeRecord. Checkboxes record
// "true"/"false"; other fields record their raw value untouched.
func (f Field) RecordValue() string {
	if f.IsCheckbox() {
		return strconv.FormatBool(f.Checked)
	}
	return f.Value
}

// ruleValue is the value exposed to requirement rules.
func (f Field) ruleValue() any {
	if f.IsCheckbox() {
		return f.Checked
	}
	return f.Value
}
