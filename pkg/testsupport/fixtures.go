// Package testsupport provides fixtures and fakes shared by package tests:
// a canonical intake form, a controllable clock, a presenter that records
// every call and a scripted relay.
package testsupport

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/form"
	pkgmodel "github.com/goliatone/go-intake/pkg/model"
)

// IntakeModel returns a compact version of the clinic intake form covering
// every field kind the pipeline distinguishes.
func IntakeModel() pkgmodel.FormModel {
	return pkgmodel.FormModel{
		ID:    "intake",
		Title: "Nova solicitação de atendimento",
		Sections: []pkgmodel.Section{
			{ID: "dados_pessoais", Title: "Dados pessoais"},
			{ID: "atendimento", Title: "Informações do atendimento"},
			{ID: "disponibilidade", Title: "Disponibilidade"},
			{ID: "observacoes", Title: "Observações"},
		},
		Fields: []pkgmodel.Field{
			{Name: "nome", Type: pkgmodel.FieldTypeText, Label: "Nome completo", Section: "dados_pessoais", Required: true},
			{Name: "email", Type: pkgmodel.FieldTypeEmail, Label: "E-mail", Section: "dados_pessoais", Required: true},
			{Name: "telefone", Type: pkgmodel.FieldTypeTel, Label: "Telefone", Section: "dados_pessoais", Required: true},
			{Name: "medicacao", Type: pkgmodel.FieldTypeSelect, Label: "Faz uso de medicação?", Section: "atendimento", Required: true, Options: []pkgmodel.Option{
				{Value: "sim", Label: "Sim"},
				{Value: "nao", Label: "Não"},
			}},
			{Name: "medicacao_detalhes", Type: pkgmodel.FieldTypeTextArea, Label: "Quais medicações?", Section: "atendimento", RequiredIf: `medicacao == "sim"`},
			{Name: "periodo", Type: pkgmodel.FieldTypeText, Label: "Período preferido", Section: "disponibilidade", Required: true},
			{Name: "observacoes", Type: pkgmodel.FieldTypeTextArea, Label: "Observações", Section: "observacoes"},
			{Name: "termos", Type: pkgmodel.FieldTypeCheckbox, Label: "Li e aceito os termos", Section: "observacoes", Required: true},
		},
	}
}

// MustNewForm instantiates def or fails the test.
func MustNewForm(t *testing.T, def pkgmodel.FormModel) *form.Form {
	t.Helper()
	f, err := form.New(def)
	if err != nil {
		t.Fatalf("testsupport: new form: %v", err)
	}
	return f
}

// FillValid populates every required field of an IntakeModel form.
func FillValid(t *testing.T, f *form.Form) {
	t.Helper()
	values := map[string]string{
		"nome":      "Ana Souza",
		"email":     "ana@example.com",
		"telefone":  "(62) 99999-0000",
		"medicacao": "nao",
		"periodo":   "Manhã",
	}
	for name, value := range values {
		if err := f.Input(name, value); err != nil {
			t.Fatalf("testsupport: input %s: %v", name, err)
		}
	}
	if err := f.Check("termos", true); err != nil {
		t.Fatalf("testsupport: check termos: %v", err)
	}
}
