package schema

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const lintFixture = `openapi: 3.0.3
info:
  title: Lint
  version: 1.0.0
paths:
  /intake:
    post:
      operationId: intake
      x-intake-sections: dados_pessoais
      x-intake-theme: dark
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                nome:
                  type: string
                  x-intake-order: first
                  x-other-vendor: ignored
                termos:
                  type: boolean
                  x-intake-section: observacoes
                  x-intake-placeholder: aceite
`

func TestLintExtensionsReportsViolations(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument(SourceFromFile("lint.yaml"), []byte(lintFixture))
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	violations, err := LintExtensions(context.Background(), doc)
	if err != nil {
		t.Fatalf("LintExtensions: %v", err)
	}

	var got []string
	for _, v := range violations {
		got = append(got, v.Location)
	}
	want := []string{
		"operation > intake",
		"operation > intake",
		"operation > intake > properties.nome",
		"operation > intake > properties.termos",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violation locations mismatch (-want +got):\n%s\n%v", diff, violations)
	}
}

func TestLintExtensionsAcceptsFixtures(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"testdata/intake.openapi.yaml", "testdata/intake.yaml"} {
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		doc, err := NewDocument(SourceFromFile(path), raw)
		if err != nil {
			t.Fatalf("NewDocument: %v", err)
		}
		violations, err := LintExtensions(context.Background(), doc)
		if err != nil {
			t.Fatalf("LintExtensions(%s): %v", path, err)
		}
		if len(violations) != 0 {
			t.Fatalf("%s: unexpected violations %v", path, violations)
		}
	}
}
