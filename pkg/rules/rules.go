// Package rules declares conditional requirements between intake fields and
// the evaluator contract used to decide them. A rule is a small expression
// over the current field values (see package expr), for example
//
//	medicacao == "sim"
//
// which, attached to a dependent field, makes that field required exactly
// while the expression holds.
package rules

import (
	"fmt"
	"strings"
)

// Evaluator decides whether a rule holds for the supplied context.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values carries the current field
// values keyed by field name; Extras lets callers inject additional context
// (feature flags, locale) addressed as `extras.<key>` inside a rule.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// RequiredIf declares that Field is required iff Rule holds.
type RequiredIf struct {
	Field string
	Rule  string
}

// Holds evaluates the requirement against values. It is a pure function: it
// never mutates values and has no side effects on any form. An empty rule
// never holds.
func Holds(evaluator Evaluator, req RequiredIf, values map[string]any) (bool, error) {
	if evaluator == nil {
		return false, fmt.Errorf("rules: evaluator is nil")
	}
	if strings.TrimSpace(req.Rule) == "" {
		return false, nil
	}
	ok, err := evaluator.Eval(req.Field, req.Rule, Context{Values: values})
	if err != nil {
		return false, fmt.Errorf("rules: evaluate %q for %s: %w", req.Rule, req.Field, err)
	}
	return ok, nil
}
