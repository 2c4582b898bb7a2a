package vanilla

import (
	"strings"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "intake-" + trimmed
}

func errorID(name string) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-error"
}

// inputType maps single-line field types onto the HTML input type.
func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail, model.FieldTypeTel, model.FieldTypeDate, model.FieldTypeNumber:
		return string(t)
	default:
		return "text"
	}
}

func fieldClass(field form.Field) string {
	switch field.Validity {
	case form.Invalid:
		return string(ClassField) + " " + string(ClassFieldInvalid)
	case form.Valid:
		return string(ClassField) + " " + string(ClassFieldValid)
	default:
		return string(ClassField)
	}
}
