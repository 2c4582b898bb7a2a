package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"nome":               "Nome",
		"data_nascimento":    "Data nascimento",
		"medicacao-detalhes": "Medicacao detalhes",
		"primeiraConsulta":   "Primeira consulta",
		"contato2":           "Contato 2",
		"__":                 "",
		"ação":               "Ação",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
