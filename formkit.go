// Package formkit renders declarative field definitions as forms. Field
// definitions come from Go values, JSON/YAML documents or OpenAPI request
// bodies; output is server-side HTML (vanilla) or an interactive terminal
// session (tui).
package formkit

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

// FieldDefinition aliases model.FieldDefinition.
type FieldDefinition = model.FieldDefinition

// Values aliases model.Values.
type Values = model.Values

// Errors aliases model.Errors.
type Errors = model.Errors

// RenderOptions describes per-request presentation hints such as title,
// action and hidden inputs.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders fields with the vanilla renderer. It is the simplest
// entry point for callers that already hold definitions in memory.
func RenderHTML(ctx context.Context, fields []FieldDefinition, values Values, errs *Errors, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Fields:        fields,
		Values:        values,
		Errors:        errs,
		Renderer:      "vanilla",
		RenderOptions: opts,
	})
}

// GenerateHTML derives fields from the OpenAPI operation and renders them
// with the vanilla renderer.
func GenerateHTML(ctx context.Context, document []byte, operationID string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		OpenAPI:     document,
		OperationID: operationID,
		Renderer:    "vanilla",
	})
}

// WithTheme passes a go-theme renderer configuration to the default HTML
// renderer so partials, tokens and assets come from the theme.
func WithTheme(cfg *theme.RendererConfig) orchestrator.Option {
	return orchestrator.WithVanillaOptions(vanilla.WithTheme(cfg))
}
