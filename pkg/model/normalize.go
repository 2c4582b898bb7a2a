package model

import internalmodel "github.com/goliatone/go-intake/internal/model"

// NormalizeOption configures Normalize.
type NormalizeOption func(*normalizeOptions)

type normalizeOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) NormalizeOption {
	return func(opts *normalizeOptions) {
		opts.labeler = labeler
	}
}

// Normalize fills derived labels and trims identifiers, returning a copy.
func Normalize(form FormModel, options ...NormalizeOption) FormModel {
	cfg := normalizeOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return internalmodel.Normalize(form, internalmodel.Options{Labeler: cfg.labeler})
}

// Validate reports structural problems in a form definition: missing ids,
// duplicate or reserved field names, unknown sections, select fields without
// options, and requiredIf rules that do not parse or reference unknown
// fields.
func Validate(form FormModel) error {
	return internalmodel.Validate(form)
}

// DefaultLabeler exposes the label derivation used by Normalize.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
