package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
)

func testModel() model.FormModel {
	return model.FormModel{
		ID: "intake",
		Sections: []model.Section{
			{ID: "dados_pessoais", Title: "Dados pessoais"},
		},
		Fields: []model.Field{
			{Name: "nome", Type: model.FieldTypeText, Section: "dados_pessoais", Required: true},
			{Name: "medicacao", Type: model.FieldTypeSelect, Options: []model.Option{{Value: "sim"}, {Value: "nao"}}},
			{Name: "medicacao_detalhes", Type: model.FieldTypeTextArea, RequiredIf: `medicacao == "sim"`},
			{Name: "termos", Type: model.FieldTypeCheckbox, Required: true},
		},
	}
}

func newTestForm(t *testing.T) *Form {
	t.Helper()
	f, err := New(testModel())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return f
}

func TestNewRejectsInvalidModel(t *testing.T) {
	t.Parallel()

	_, err := New(model.FormModel{ID: "broken"})
	if err == nil {
		t.Fatalf("expected error for model without fields")
	}
}

func TestNewSeedsRequiredness(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	got := map[string]bool{}
	for _, field := range f.Fields() {
		got[field.Name()] = field.Required
		if field.Validity != Untouched {
			t.Fatalf("field %s validity = %s, want untouched", field.Name(), field.Validity)
		}
	}
	want := map[string]bool{
		"nome":               true,
		"medicacao":          false,
		"medicacao_detalhes": false,
		"termos":             true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestInputEmitsChangeThenInput(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	var events []Event
	f.Listen(func(_ *Form, evt Event) { events = append(events, evt) })

	if err := f.Input("nome", "Ana"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := f.Input("nome", "Ana"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := f.Blur("nome"); err != nil {
		t.Fatalf("Blur: %v", err)
	}

	want := []Event{
		{Kind: EventChange, Field: "nome"},
		{Kind: EventInput, Field: "nome"},
		{Kind: EventInput, Field: "nome"},
		{Kind: EventBlur, Field: "nome"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownFieldErrors(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	for name, err := range map[string]error{
		"input":    f.Input("missing", "x"),
		"check":    f.Check("missing", true),
		"blur":     f.Blur("missing"),
		"clear":    f.Clear("missing"),
		"required": f.SetRequired("missing", true),
		"mark":     f.Mark("missing", Valid),
	} {
		if !errors.Is(err, ErrUnknownField) {
			t.Fatalf("%s: expected ErrUnknownField, got %v", name, err)
		}
	}
}

func TestObserversReceiveSnapshots(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	var seen []Validity
	cancel := f.Observe(ObserverFunc(func(field Field) {
		if field.Name() == "nome" {
			seen = append(seen, field.Validity)
		}
	}))

	_ = f.Mark("nome", Invalid)
	_ = f.Mark("nome", Invalid)
	_ = f.Mark("nome", Valid)
	cancel()
	_ = f.Mark("nome", Invalid)

	want := []Validity{Invalid, Valid}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestClearResetsValueAndValidity(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	_ = f.Input("medicacao_detalhes", "sertralina")
	_ = f.Mark("medicacao_detalhes", Valid)

	var events []Event
	f.Listen(func(_ *Form, evt Event) { events = append(events, evt) })

	if err := f.Clear("medicacao_detalhes"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	field, _ := f.Field("medicacao_detalhes")
	if field.Value != "" || field.Validity != Untouched {
		t.Fatalf("expected cleared untouched field, got %+v", field)
	}
	want := []Event{{Kind: EventChange, Field: "medicacao_detalhes"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotRecordsCheckboxAsBool(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	_ = f.Input("nome", "Ana Souza")
	_ = f.Input("termos", "on")

	record := f.Snapshot()
	if got := record.Value("termos"); got != "false" {
		t.Fatalf("unchecked checkbox recorded %q, want false", got)
	}

	_ = f.Check("termos", true)
	_ = f.Input("nome", "Outra")
	if got := record.Value("nome"); got != "Ana Souza" {
		t.Fatalf("record must not follow later edits, got %q", got)
	}

	record = f.Snapshot()
	want := map[string]string{
		"nome":               "Outra",
		"medicacao":          "",
		"medicacao_detalhes": "",
		"termos":             "true",
	}
	if diff := cmp.Diff(want, record.Values()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"nome", "medicacao", "medicacao_detalhes", "termos"}, record.Names()); diff != "" {
		t.Fatalf("record order mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesExposeRuleTypes(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	_ = f.Input("medicacao", "sim")
	_ = f.Check("termos", true)

	values := f.Values()
	if values["medicacao"] != "sim" {
		t.Fatalf("medicacao = %v", values["medicacao"])
	}
	if values["termos"] != true {
		t.Fatalf("termos = %v, want bool true", values["termos"])
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	_ = f.Input("nome", "Ana")
	_ = f.Mark("nome", Valid)
	_ = f.Check("termos", true)
	_ = f.Mark("medicacao", Invalid)

	var events []Event
	f.Listen(func(_ *Form, evt Event) { events = append(events, evt) })
	f.Reset()

	for _, field := range f.Fields() {
		if !field.IsEmpty() || field.Validity != Untouched {
			t.Fatalf("field %s not reset: %+v", field.Name(), field)
		}
	}
	want := []Event{
		{Kind: EventChange, Field: "nome"},
		{Kind: EventChange, Field: "termos"},
		{Kind: EventReset},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestListenersMayMutateForm(t *testing.T) {
	t.Parallel()

	f := newTestForm(t)
	f.Listen(func(form *Form, evt Event) {
		if evt.Kind == EventChange && evt.Field == "medicacao" {
			_ = form.SetRequired("medicacao_detalhes", true)
		}
	})

	_ = f.Input("medicacao", "sim")
	field, _ := f.Field("medicacao_detalhes")
	if !field.Required {
		t.Fatalf("expected reentrant listener to mark field required")
	}
}
