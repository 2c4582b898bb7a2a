package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
)

func newForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New(model.FormModel{
		ID: "intake",
		Fields: []model.Field{
			{Name: "nome", Type: model.FieldTypeText, Required: true},
			{Name: "email", Type: model.FieldTypeEmail, Required: true},
			{Name: "observacoes", Type: model.FieldTypeTextArea},
			{Name: "termos", Type: model.FieldTypeCheckbox, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	return f
}

func validity(t *testing.T, f *form.Form, name string) form.Validity {
	t.Helper()
	field, ok := f.Field(name)
	if !ok {
		t.Fatalf("field %s missing", name)
	}
	return field.Validity
}

func TestCheck(t *testing.T) {
	t.Parallel()

	text := model.Field{Name: "nome", Type: model.FieldTypeText}
	box := model.Field{Name: "termos", Type: model.FieldTypeCheckbox}

	cases := []struct {
		name  string
		field form.Field
		want  bool
	}{
		{"optional empty", form.Field{Def: text}, true},
		{"required empty", form.Field{Def: text, Required: true}, false},
		{"required whitespace", form.Field{Def: text, Required: true, Value: " \t\n"}, false},
		{"required filled", form.Field{Def: text, Required: true, Value: " Ana "}, true},
		{"checkbox unchecked with value", form.Field{Def: box, Required: true, Value: "on"}, false},
		{"checkbox checked without value", form.Field{Def: box, Required: true, Checked: true}, true},
		{"optional checkbox unchecked", form.Field{Def: box}, true},
	}
	for _, tc := range cases {
		if got := Check(tc.field); got != tc.want {
			t.Fatalf("%s: Check = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateMarksAndIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newForm(t)
	for i := 0; i < 2; i++ {
		ok, err := Validate(f, "nome")
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if ok {
			t.Fatalf("expected empty required field to be invalid")
		}
		if got := validity(t, f, "nome"); got != form.Invalid {
			t.Fatalf("validity = %s, want invalid", got)
		}
	}

	if _, err := Validate(f, "missing"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestInputOnlyRevalidatesInvalidFields(t *testing.T) {
	t.Parallel()

	f := newForm(t)
	detach := Attach(f)
	defer detach()

	// Typing into an untouched field never flags it.
	_ = f.Input("nome", "A")
	_ = f.Input("nome", "")
	if got := validity(t, f, "nome"); got != form.Untouched {
		t.Fatalf("validity after typing = %s, want untouched", got)
	}

	_ = f.Blur("nome")
	if got := validity(t, f, "nome"); got != form.Invalid {
		t.Fatalf("validity after blur = %s, want invalid", got)
	}

	_ = f.Input("nome", "Ana")
	if got := validity(t, f, "nome"); got != form.Valid {
		t.Fatalf("validity after fix = %s, want valid", got)
	}

	// A valid field is not retroactively flagged while editing.
	_ = f.Input("nome", "")
	if got := validity(t, f, "nome"); got != form.Valid {
		t.Fatalf("validity after clearing valid field = %s, want valid", got)
	}
}

func TestCheckboxValidityFollowsChecked(t *testing.T) {
	t.Parallel()

	f := newForm(t)
	_ = f.Input("termos", "on")
	if ok, _ := Validate(f, "termos"); ok {
		t.Fatalf("unchecked checkbox with value must be invalid")
	}
	_ = f.Check("termos", true)
	_ = f.Input("termos", "")
	if ok, _ := Validate(f, "termos"); !ok {
		t.Fatalf("checked checkbox without value must be valid")
	}
}

func TestValidateAllAndRun(t *testing.T) {
	t.Parallel()

	f := newForm(t)
	_ = f.Input("email", "ana@example.com")

	want := []string{"nome", "termos"}
	if diff := cmp.Diff(want, ValidateAll(f)); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	if got := validity(t, f, "observacoes"); got != form.Valid {
		t.Fatalf("optional field validity = %s, want valid", got)
	}

	err := Run(f)
	if !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) || verr.First() != "nome" {
		t.Fatalf("expected first invalid field nome, got %v", err)
	}

	issues := Issues(f, err)
	wantIssues := []Issue{
		{Field: "nome", Label: "Nome", Message: DefaultMessage},
		{Field: "termos", Label: "Termos", Message: DefaultMessage},
	}
	if diff := cmp.Diff(wantIssues, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	_ = f.Input("nome", "Ana")
	_ = f.Check("termos", true)
	if err := Run(f); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}
