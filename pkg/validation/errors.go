package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/form"
)

// ErrRequired is matched by every Error via errors.Is.
var ErrRequired = errors.New("validation: required field is empty")

// DefaultMessage is attached to issues when no message catalogue is
// supplied.
const DefaultMessage = "Este campo é obrigatório."

// Issue represents a validation failure for a single field.
type Issue struct {
	Field   string `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// Error reports the fields that failed validation, in form order.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrRequired.Error()
	}
	return fmt.Sprintf("validation: required fields are empty: %s", strings.Join(e.Fields, ", "))
}

// Is matches ErrRequired.
func (e *Error) Is(target error) bool {
	return target == ErrRequired
}

// First returns the field to focus, or the empty string.
func (e *Error) First() string {
	if e == nil || len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

// Run validates every field of the form and returns an *Error naming the
// invalid ones, or nil.
func Run(f *form.Form) error {
	invalid := ValidateAll(f)
	if len(invalid) == 0 {
		return nil
	}
	return &Error{Fields: invalid}
}

// Issues expands err into per-field issues using the form labels. It returns
// nil when err is not a validation error.
func Issues(f *form.Form, err error) []Issue {
	var verr *Error
	if !errors.As(err, &verr) {
		return nil
	}
	issues := make([]Issue, 0, len(verr.Fields))
	for _, name := range verr.Fields {
		issue := Issue{Field: name, Message: DefaultMessage}
		if field, ok := f.Field(name); ok {
			issue.Label = field.Def.Label
		}
		issues = append(issues, issue)
	}
	return issues
}

func unknown(name string) error {
	return fmt.Errorf("validation: %w: %q", form.ErrUnknownField, name)
}
