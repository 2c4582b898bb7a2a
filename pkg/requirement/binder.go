// Package requirement keeps conditionally-required fields in sync with the
// fields their rules reference.
package requirement

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/rules"
	"github.com/goliatone/go-intake/pkg/rules/expr"
)

// Option customises Bind.
type Option func(*binder)

// WithLogger reports rule evaluation failures that happen after bind time.
func WithLogger(logger *zap.Logger) Option {
	return func(b *binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type binding struct {
	req     rules.RequiredIf
	depends map[string]struct{}
}

type binder struct {
	evaluator rules.Evaluator
	logger    *zap.Logger
	bindings  []binding
}

// Rules collects the RequiredIf declarations of a form definition.
func Rules(f *form.Form) []rules.RequiredIf {
	var out []rules.RequiredIf
	for _, field := range f.Definition().Fields {
		if field.RequiredIf == "" {
			continue
		}
		out = append(out, rules.RequiredIf{Field: field.Name, Rule: field.RequiredIf})
	}
	return out
}

// Bind applies every RequiredIf rule of the form once, then re-applies a rule
// synchronously whenever one of the fields it references changes. When a
// rule holds the dependent field becomes required; otherwise the requirement
// is removed and the dependent field is cleared with its validity reset. The
// returned function detaches the listener.
func Bind(f *form.Form, evaluator rules.Evaluator, opts ...Option) (func(), error) {
	if evaluator == nil {
		evaluator = expr.New()
	}
	b := &binder{evaluator: evaluator, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	for _, req := range Rules(f) {
		idents, err := expr.Identifiers(req.Rule)
		if err != nil {
			return nil, fmt.Errorf("requirement: rule for %s: %w", req.Field, err)
		}
		deps := make(map[string]struct{}, len(idents))
		for _, ident := range idents {
			deps[ident] = struct{}{}
		}
		b.bindings = append(b.bindings, binding{req: req, depends: deps})
	}

	for _, bnd := range b.bindings {
		if err := b.apply(f, bnd.req); err != nil {
			return nil, err
		}
	}

	if len(b.bindings) == 0 {
		return func() {}, nil
	}
	return f.Listen(b.onEvent), nil
}

func (b *binder) onEvent(f *form.Form, evt form.Event) {
	if evt.Kind != form.EventChange {
		return
	}
	for _, bnd := range b.bindings {
		if _, ok := bnd.depends[evt.Field]; !ok {
			continue
		}
		if err := b.apply(f, bnd.req); err != nil {
			b.logger.Warn("requirement rule failed",
				zap.String("field", bnd.req.Field),
				zap.String("rule", bnd.req.Rule),
				zap.Error(err),
			)
		}
	}
}

func (b *binder) apply(f *form.Form, req rules.RequiredIf) error {
	holds, err := rules.Holds(b.evaluator, req, f.Values())
	if err != nil {
		return fmt.Errorf("requirement: %w", err)
	}
	if holds {
		return f.SetRequired(req.Field, true)
	}
	if err := f.SetRequired(req.Field, false); err != nil {
		return err
	}
	return f.Clear(req.Field)
}
