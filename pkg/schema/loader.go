// Package schema loads intake form definitions. The native format is a YAML
// document mirroring model.FormModel; an OpenAPI 3 operation request body
// can be used instead, with x-intake-* extensions supplying sections,
// widgets, ordering and conditional requirements.
package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-intake/internal/loader"
	"github.com/goliatone/go-intake/pkg/model"
)

//go:embed forms/*.yaml
var formsFS embed.FS

// DefaultFormPath is the embedded clinic intake definition.
const DefaultFormPath = "forms/intake.yaml"

// Option configures a Loader.
type Option func(*Loader)

// WithFS serves fs sources from fsys instead of the embedded forms.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.opts.FileSystem = fsys
	}
}

// WithHTTP enables URL sources.
func WithHTTP(client *http.Client, timeout time.Duration) Option {
	return func(l *Loader) {
		l.opts.HTTPClient = client
		l.opts.AllowHTTP = true
		l.opts.RequestTimeout = timeout
	}
}

// WithOperationID selects the OpenAPI operation describing the form.
func WithOperationID(id string) Option {
	return func(l *Loader) {
		l.operationID = id
	}
}

// WithDecorators registers decorators applied after decoding, in order.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(l *Loader) {
		l.decorators = append(l.decorators, decorators...)
	}
}

// Loader reads, decodes, decorates, normalises and validates definitions.
type Loader struct {
	opts        loader.Options
	operationID string
	decorators  []model.Decorator
	reader      *loader.Loader
}

// NewLoader returns a Loader reading fs sources from the embedded forms.
func NewLoader(options ...Option) *Loader {
	l := &Loader{opts: loader.Options{FileSystem: formsFS}}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	l.reader = loader.New(l.opts)
	return l
}

// Load reads src and returns a validated, normalised form model.
func (l *Loader) Load(ctx context.Context, src Source) (model.FormModel, error) {
	if src == nil {
		return model.FormModel{}, fmt.Errorf("schema: source is nil")
	}
	raw, err := l.reader.Read(ctx, loader.Kind(src.Kind()), src.Location())
	if err != nil {
		return model.FormModel{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	doc, err := NewDocument(src, raw)
	if err != nil {
		return model.FormModel{}, err
	}
	return l.Decode(ctx, doc)
}

// Decode turns an already-read document into a form model.
func (l *Loader) Decode(ctx context.Context, doc Document) (model.FormModel, error) {
	var (
		form model.FormModel
		err  error
	)
	switch doc.Format() {
	case FormatOpenAPI:
		form, err = DecodeOpenAPI(ctx, doc, l.operationID)
	default:
		form, err = DecodeYAML(doc)
	}
	if err != nil {
		return model.FormModel{}, err
	}

	if err := model.Chain(l.decorators...).Decorate(&form); err != nil {
		return model.FormModel{}, fmt.Errorf("schema: decorate %s: %w", doc.Location(), err)
	}

	form = model.Normalize(form)
	if err := model.Validate(form); err != nil {
		return model.FormModel{}, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	return form, nil
}

// Default returns the embedded clinic intake form.
func Default(ctx context.Context) (model.FormModel, error) {
	return NewLoader().Load(ctx, SourceFromFS(DefaultFormPath))
}
