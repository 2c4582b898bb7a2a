package requirement

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/rules"
	"github.com/goliatone/go-intake/pkg/rules/expr"
	"github.com/goliatone/go-intake/pkg/validation"
)

func medicationForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New(model.FormModel{
		ID: "intake",
		Fields: []model.Field{
			{Name: "medicacao", Type: model.FieldTypeSelect, Required: true, Options: []model.Option{
				{Value: "sim", Label: "Sim"},
				{Value: "nao", Label: "Não"},
			}},
			{Name: "medicacao_detalhes", Type: model.FieldTypeTextArea, RequiredIf: `medicacao == "sim"`},
		},
	})
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	return f
}

func details(t *testing.T, f *form.Form) form.Field {
	t.Helper()
	field, ok := f.Field("medicacao_detalhes")
	if !ok {
		t.Fatalf("details field missing")
	}
	return field
}

func TestBindAppliesAtBindTime(t *testing.T) {
	t.Parallel()

	f := medicationForm(t)
	_ = f.Input("medicacao", "sim")

	detach, err := Bind(f, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer detach()

	if !details(t, f).Required {
		t.Fatalf("expected details required after bind")
	}
}

func TestSentinelAddsAndRemovesRequirement(t *testing.T) {
	t.Parallel()

	f := medicationForm(t)
	validation.Attach(f)
	if _, err := Bind(f, expr.New()); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if details(t, f).Required {
		t.Fatalf("details must start optional")
	}

	_ = f.Input("medicacao", "sim")
	if !details(t, f).Required {
		t.Fatalf("sentinel must make details required")
	}

	_ = f.Input("medicacao_detalhes", "sertralina 50mg")
	_ = f.Blur("medicacao_detalhes")
	if got := details(t, f).Validity; got != form.Valid {
		t.Fatalf("validity = %s, want valid", got)
	}

	_ = f.Input("medicacao", "nao")
	got := details(t, f)
	if got.Required || got.Value != "" || got.Validity != form.Untouched {
		t.Fatalf("expected optional cleared untouched details, got %+v", got)
	}
}

func TestTogglingIsIdempotent(t *testing.T) {
	t.Parallel()

	f := medicationForm(t)
	if _, err := Bind(f, nil); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	var required []bool
	f.Observe(form.ObserverFunc(func(field form.Field) {
		if field.Name() == "medicacao_detalhes" {
			required = append(required, field.Required)
		}
	}))

	for _, value := range []string{"sim", "sim", "nao", "nao", "", "sim"} {
		_ = f.Input("medicacao", value)
	}

	want := []bool{true, false, true}
	if diff := cmp.Diff(want, required); diff != "" {
		t.Fatalf("requiredness transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestUnrelatedChangesDoNotClear(t *testing.T) {
	t.Parallel()

	f, err := form.New(model.FormModel{
		ID: "intake",
		Fields: []model.Field{
			{Name: "nome", Type: model.FieldTypeText},
			{Name: "medicacao", Type: model.FieldTypeText},
			{Name: "medicacao_detalhes", Type: model.FieldTypeText, RequiredIf: `medicacao == "sim"`},
		},
	})
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	if _, err := Bind(f, nil); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	_ = f.Input("medicacao", "sim")
	_ = f.Input("medicacao_detalhes", "fluoxetina")
	_ = f.Input("nome", "Ana")

	if got := details(t, f).Value; got != "fluoxetina" {
		t.Fatalf("details value = %q, want preserved", got)
	}
}

func TestBindReportsEvaluatorErrors(t *testing.T) {
	t.Parallel()

	f := medicationForm(t)
	boom := errors.New("boom")
	_, err := Bind(f, rules.EvaluatorFunc(func(string, string, rules.Context) (bool, error) {
		return false, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected evaluator error, got %v", err)
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	want := []rules.RequiredIf{{Field: "medicacao_detalhes", Rule: `medicacao == "sim"`}}
	if diff := cmp.Diff(want, Rules(medicationForm(t))); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}
