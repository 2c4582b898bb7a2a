package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-intake/pkg/model"
	rendertemplate "github.com/goliatone/go-intake/pkg/render/template"
	gotemplate "github.com/goliatone/go-intake/pkg/render/template/gotemplate"
)

// PageTemplate is the template rendered for the intake page.
const PageTemplate = "templates/page"

// Option customises a Renderer.
type Option func(*Renderer)

// WithTemplatesFS replaces the embedded templates. The bundle must provide
// PageTemplate (or the name set with WithPageTemplate).
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.files = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a template engine; the template bundle is
// then ignored.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.templates = renderer
		}
	}
}

// WithPageTemplate renders name instead of PageTemplate.
func WithPageTemplate(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.page = name
		}
	}
}

// WithDefaults sets the options used when Render receives empty values.
func WithDefaults(opts RenderOptions) Option {
	return func(r *Renderer) {
		r.defaults = opts
	}
}

// Renderer turns a form definition plus page state into HTML.
type Renderer struct {
	files     fs.FS
	templates rendertemplate.TemplateRenderer
	page      string
	defaults  RenderOptions
}

// New builds a pongo2-backed renderer over the embedded templates unless
// options say otherwise.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{files: TemplatesFS(), page: PageTemplate}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates != nil {
		return r, nil
	}

	engine, err := gotemplate.New(
		gotemplate.WithName("vanilla"),
		gotemplate.WithFS(r.files),
	)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
	}
	r.templates = engine
	return r, nil
}

func (r *Renderer) Name() string        { return "vanilla" }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the full intake page for def in the state captured by page.
func (r *Renderer) Render(_ context.Context, def model.FormModel, page *PageState, opts RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(r.page, BuildView(def, page, r.merge(opts)))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s: %w", r.page, err)
	}
	return []byte(result), nil
}

func (r *Renderer) merge(opts RenderOptions) RenderOptions {
	if opts.Action == "" {
		opts.Action = r.defaults.Action
	}
	if opts.Stylesheet == "" {
		opts.Stylesheet = r.defaults.Stylesheet
	}
	if opts.ContactURL == "" {
		opts.ContactURL = r.defaults.ContactURL
	}
	return opts
}
