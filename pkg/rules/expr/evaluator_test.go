package expr

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/rules"
)

func evalRule(t *testing.T, eval *Evaluator, rule string, values map[string]any) bool {
	t.Helper()
	ok, err := eval.Eval("medicacao_detalhes", rule, rules.Context{Values: values})
	if err != nil {
		t.Fatalf("Eval(%q) returned error: %v", rule, err)
	}
	return ok
}

func TestEvaluatorStringComparison(t *testing.T) {
	t.Parallel()

	eval := New()

	if !evalRule(t, eval, `medicacao == "sim"`, map[string]any{"medicacao": "sim"}) {
		t.Fatalf("expected true for matching sentinel")
	}
	if evalRule(t, eval, `medicacao == "sim"`, map[string]any{"medicacao": "nao"}) {
		t.Fatalf("expected false for other value")
	}
	if evalRule(t, eval, `medicacao == "sim"`, map[string]any{}) {
		t.Fatalf("expected false for missing value")
	}
	if !evalRule(t, eval, `medicacao == 'sim'`, map[string]any{"medicacao": "sim"}) {
		t.Fatalf("expected single quoted literal to match")
	}
	if !evalRule(t, eval, `medicacao == sim`, map[string]any{"medicacao": "sim"}) {
		t.Fatalf("expected bare word literal to compare as string")
	}
	if !evalRule(t, eval, `modalidade != "online"`, map[string]any{"modalidade": "presencial"}) {
		t.Fatalf("expected true for inequality")
	}
}

func TestEvaluatorBooleanAndTruthy(t *testing.T) {
	t.Parallel()

	eval := New()

	if !evalRule(t, eval, "termos == true", map[string]any{"termos": "true"}) {
		t.Fatalf("expected string true to coerce")
	}
	if !evalRule(t, eval, "termos", map[string]any{"termos": true}) {
		t.Fatalf("expected truthy check to hold")
	}
	if !evalRule(t, eval, "!termos", map[string]any{"termos": false}) {
		t.Fatalf("expected negation to hold")
	}
	if evalRule(t, eval, "observacoes", map[string]any{"observacoes": "   "}) {
		t.Fatalf("expected blank string to be falsy")
	}
}

func TestEvaluatorNumbersAndNull(t *testing.T) {
	t.Parallel()

	eval := New()

	if !evalRule(t, eval, "idade == 17", map[string]any{"idade": "17"}) {
		t.Fatalf("expected numeric string to coerce")
	}
	if !evalRule(t, eval, "missing == null", map[string]any{}) {
		t.Fatalf("expected missing == null")
	}
	if !evalRule(t, eval, "termos != null", map[string]any{"termos": false}) {
		t.Fatalf("expected present != null")
	}
}

func TestEvaluatorComposition(t *testing.T) {
	t.Parallel()

	eval := New()
	rule := `(medicacao == "sim" || acompanhamento == "psiquiatrico") && !menor`

	if !evalRule(t, eval, rule, map[string]any{"medicacao": "nao", "acompanhamento": "psiquiatrico", "menor": false}) {
		t.Fatalf("expected disjunction to hold")
	}
	if evalRule(t, eval, rule, map[string]any{"medicacao": "sim", "menor": true}) {
		t.Fatalf("expected conjunction with negation to fail")
	}
}

func TestEvaluatorDotLookupAndExtras(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("x", `contato.tipo == "whatsapp" && extras.locale == "pt-BR"`, rules.Context{
		Values: map[string]any{"contato": map[string]any{"tipo": "whatsapp"}},
		Extras: map[string]any{"locale": "pt-BR"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected nested lookup and extras to hold")
	}
}

func TestEvaluatorEmptyRuleHolds(t *testing.T) {
	t.Parallel()

	if !evalRule(t, New(), "   ", nil) {
		t.Fatalf("expected empty rule to hold")
	}
}

func TestEvaluatorSyntaxErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`medicacao = "sim"`:   "use '=='",
		`a & b`:               "use '&&'",
		`a | b`:               "use '||'",
		`medicacao == "sim`:   "unterminated",
		`(medicacao == "sim"`: "missing closing",
		`medicacao ==`:        "missing literal",
		`== "sim"`:            "expected identifier",
		`a b`:                 "unexpected token",
	}
	for rule, want := range cases {
		_, err := New().Eval("x", rule, rules.Context{})
		if err == nil {
			t.Fatalf("Eval(%q) expected error", rule)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Eval(%q) error %q does not contain %q", rule, err, want)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	got, err := Identifiers(`(medicacao == "sim" || medicacao == "talvez") && !menor && extras.flag`)
	if err != nil {
		t.Fatalf("Identifiers returned error: %v", err)
	}
	want := []string{"medicacao", "menor"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}

	empty, err := Identifiers("")
	if err != nil {
		t.Fatalf("Identifiers(empty) returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no identifiers, got %v", empty)
	}
}

func TestEvaluatorCachesPrograms(t *testing.T) {
	t.Parallel()

	eval := New()
	for i := 0; i < 3; i++ {
		evalRule(t, eval, `medicacao == "sim"`, map[string]any{"medicacao": "sim"})
	}

	count := 0
	eval.cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count != 1 {
		t.Fatalf("expected a single cached program, got %d", count)
	}
}
