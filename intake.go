// Package intake is the entry point for embedding the clinic intake
// pipeline: load a form definition, instantiate it and drive it through an
// orchestrator with a presenter of your choice.
//
//	def, _ := intake.LoadForm(ctx, "", "")
//	f, _ := intake.NewForm(def)
//	orch, _ := intake.NewPipeline(f, sender, presenter)
//	res := orch.Submit(ctx)
package intake

import (
	"context"
	"strings"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/relay"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Presenter aliases orchestrator.Presenter.
type Presenter = orchestrator.Presenter

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// LoadForm loads a form definition from a file path or URL. An empty
// location returns the embedded clinic form. operationID selects the
// operation when the document is an OpenAPI description.
func LoadForm(ctx context.Context, location, operationID string, options ...schema.Option) (model.FormModel, error) {
	if strings.TrimSpace(location) == "" {
		return schema.NewLoader(options...).Load(ctx, schema.SourceFromFS(schema.DefaultFormPath))
	}
	src, err := schema.ParseSource(location)
	if err != nil {
		return model.FormModel{}, err
	}
	if operationID != "" {
		options = append(options, schema.WithOperationID(operationID))
	}
	return schema.NewLoader(options...).Load(ctx, src)
}

// NewForm instantiates def.
func NewForm(def model.FormModel) (*form.Form, error) {
	return form.New(def)
}

// NewPipeline wires validation, conditional requirements, banners and the
// relay around f.
func NewPipeline(f *form.Form, sender relay.Sender, presenter Presenter, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(f, sender, presenter, options...)
}
