package schema

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
)

func TestDefaultForm(t *testing.T) {
	t.Parallel()

	form, err := Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if form.ID != "intake" {
		t.Fatalf("unexpected id %q", form.ID)
	}

	var sections []string
	for _, section := range form.Sections {
		sections = append(sections, section.ID)
	}
	if diff := cmp.Diff([]string{"dados_pessoais", "atendimento", "disponibilidade", "observacoes"}, sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}

	details, ok := form.Field("medicacao_detalhes")
	if !ok || details.RequiredIf != `medicacao == "sim"` || details.Required {
		t.Fatalf("unexpected details field %+v", details)
	}
	termos, ok := form.Field("termos")
	if !ok || termos.Type != model.FieldTypeCheckbox || !termos.Required {
		t.Fatalf("unexpected consent field %+v", termos)
	}
	dias, _ := form.Field("dias")
	if dias.Placeholder != "Ex.: segunda e quarta" {
		t.Fatalf("unexpected placeholder %q", dias.Placeholder)
	}
}

func TestYAMLAndOpenAPIProduceEquivalentModels(t *testing.T) {
	t.Parallel()

	fsys := os.DirFS("testdata")
	loader := NewLoader(WithFS(fsys))

	fromYAML, err := loader.Load(context.Background(), SourceFromFS("intake.yaml"))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	fromOpenAPI, err := loader.Load(context.Background(), SourceFromFS("intake.openapi.yaml"))
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}
	if diff := cmp.Diff(fromYAML, fromOpenAPI); diff != "" {
		t.Fatalf("models differ (-yaml +openapi):\n%s", diff)
	}
}

func TestOpenAPIOperationSelection(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile("testdata/intake.openapi.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := NewDocument(SourceFromFile("testdata/intake.openapi.yaml"), raw)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if doc.Format() != FormatOpenAPI {
		t.Fatalf("expected openapi format")
	}

	if _, err := DecodeOpenAPI(context.Background(), doc, "missing"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing operation error, got %v", err)
	}
	form, err := DecodeOpenAPI(context.Background(), doc, "intake")
	if err != nil {
		t.Fatalf("DecodeOpenAPI: %v", err)
	}
	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"nome", "email", "medicacao", "medicacao_detalhes", "termos"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	loader := NewLoader(WithFS(fstest.MapFS{
		"typo.yaml": {Data: []byte("id: x\nfields:\n  - name: nome\n    type: text\n    requird: true\n")},
	}))
	if _, err := loader.Load(context.Background(), SourceFromFS("typo.yaml")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadValidatesModel(t *testing.T) {
	t.Parallel()

	loader := NewLoader(WithFS(fstest.MapFS{
		"bad.yaml": {Data: []byte("id: x\nfields:\n  - name: detalhes\n    type: text\n    requiredIf: medicacao == \"sim\"\n")},
	}))
	_, err := loader.Load(context.Background(), SourceFromFS("bad.yaml"))
	if err == nil || !strings.Contains(err.Error(), "medicacao") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestOverlayDecorator(t *testing.T) {
	t.Parallel()

	overlay, err := ParseOverlay([]byte(`
form:
  title: Intake request
sections:
  - id: dados_pessoais
    title: Personal data
fields:
  nome:
    label: Full name
  medicacao:
    options:
      nao: "No"
`))
	if err != nil {
		t.Fatalf("ParseOverlay: %v", err)
	}

	loader := NewLoader(WithFS(os.DirFS("testdata")), WithDecorators(overlay))
	form, err := loader.Load(context.Background(), SourceFromFS("intake.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if form.Title != "Intake request" {
		t.Fatalf("title = %q", form.Title)
	}
	if section, _ := form.Section("dados_pessoais"); section.Title != "Personal data" {
		t.Fatalf("section title = %q", section.Title)
	}
	nome, _ := form.Field("nome")
	medicacao, _ := form.Field("medicacao")
	if nome.Label != "Full name" || medicacao.OptionLabel("nao") != "No" || medicacao.OptionLabel("sim") != "Sim" {
		t.Fatalf("overlay not applied: %+v %+v", nome, medicacao)
	}

	stale := Overlay{Fields: map[string]FieldOverlay{"gone": {Label: "x"}}}
	_, err = NewLoader(WithFS(os.DirFS("testdata")), WithDecorators(stale)).Load(context.Background(), SourceFromFS("intake.yaml"))
	if err == nil {
		t.Fatalf("expected stale overlay error")
	}
}

func TestParseSource(t *testing.T) {
	t.Parallel()

	src, err := ParseSource("https://example.com/forms/intake.yaml")
	if err != nil || src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %v %v", src, err)
	}
	src, err = ParseSource("./forms/intake.yaml")
	if err != nil || src.Kind() != SourceKindFile || src.Location() != "forms/intake.yaml" {
		t.Fatalf("expected file source, got %v %v", src, err)
	}
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
	if _, err := SourceFromURL("ftp://example.com/x"); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := NewDocument(SourceFromFS("x"), []byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}
