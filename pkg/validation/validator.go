// Package validation decides whether intake fields satisfy their
// requiredness and keeps each field's validity marker current.
//
// Validity is a derived property: a field is valid iff it is not required,
// or it is a checked checkbox, or it is a text-like field whose trimmed value
// is non-empty. Marking a field notifies the form observers, which is how
// presenters learn to show or hide the error state.
package validation

import (
	"github.com/goliatone/go-intake/pkg/form"
)

// Check reports whether the field satisfies its requiredness without
// touching any state.
func Check(field form.Field) bool {
	if !field.Required {
		return true
	}
	return !field.IsEmpty()
}

// Validate checks the named field and marks it Valid or Invalid. Calling it
// repeatedly without intervening input yields the same result.
func Validate(f *form.Form, name string) (bool, error) {
	field, ok := f.Field(name)
	if !ok {
		return false, unknown(name)
	}
	valid := Check(field)
	state := form.Invalid
	if valid {
		state = form.Valid
	}
	if err := f.Mark(name, state); err != nil {
		return false, err
	}
	return valid, nil
}

// Blur validates the field the user just left.
func Blur(f *form.Form, name string) (bool, error) {
	return Validate(f, name)
}

// Input re-validates the field only when it is currently Invalid, so an error
// clears as soon as it is fixed while untouched or valid fields are never
// flagged while the user is still typing.
func Input(f *form.Form, name string) error {
	field, ok := f.Field(name)
	if !ok {
		return unknown(name)
	}
	if field.Validity != form.Invalid {
		return nil
	}
	_, err := Validate(f, name)
	return err
}

// ValidateAll validates every field and returns the names of the invalid
// ones in form order. The first entry is the field to focus.
func ValidateAll(f *form.Form) []string {
	var invalid []string
	for _, field := range f.Fields() {
		valid, err := Validate(f, field.Name())
		if err != nil || !valid {
			invalid = append(invalid, field.Name())
		}
	}
	return invalid
}

// Attach wires Blur and Input to the form's events and returns a function
// that detaches them.
func Attach(f *form.Form) func() {
	return f.Listen(func(target *form.Form, evt form.Event) {
		switch evt.Kind {
		case form.EventBlur:
			_, _ = Blur(target, evt.Field)
		case form.EventInput:
			_ = Input(target, evt.Field)
		}
	})
}
