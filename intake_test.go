package intake

import (
	"context"
	"io/fs"
	"testing"

	"github.com/goliatone/go-intake/pkg/testsupport"
)

func TestLoadFormDefaultsToEmbeddedDefinition(t *testing.T) {
	def, err := LoadForm(context.Background(), "", "")
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if _, ok := def.Field("medicacao_detalhes"); !ok {
		t.Fatalf("embedded form should declare medicacao_detalhes")
	}
}

func TestLoadFormFromFile(t *testing.T) {
	def, err := LoadForm(context.Background(), "pkg/schema/testdata/intake.openapi.yaml", "")
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if _, ok := def.Field("termos"); !ok {
		t.Fatalf("expected termos field, got %+v", def.Fields)
	}
}

func TestNewPipelineSubmits(t *testing.T) {
	f, err := NewForm(testsupport.IntakeModel())
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	sender := testsupport.NewFakeRelay()
	orch, err := NewPipeline(f, sender, testsupport.NewRecordingPresenter())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	defer orch.Close()

	testsupport.FillValid(t, f)
	if res := orch.Submit(context.Background()); !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tpl"); err != nil {
		t.Fatalf("page template missing: %v", err)
	}
	if _, err := fs.ReadFile(AssetsFS(), "intake.css"); err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
}
