package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/goliatone/go-formkit/pkg/fieldsource"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer registers an additional renderer on the orchestrator's
// registry. A name that is already taken surfaces as a Generate error.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		if renderer != nil {
			o.extra = append(o.extra, renderer)
		}
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithVanillaOptions configures the default HTML renderer.
func WithVanillaOptions(options ...vanilla.Option) Option {
	return func(o *Orchestrator) {
		o.vanillaOptions = append(o.vanillaOptions, options...)
	}
}

// WithSchemaTransformer registers a Transformer that can rewrite field
// definitions after loading and before rendering.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger logs each generated form.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the steps required to turn a definitions source
// into rendered output. It applies defaults (vanilla renderer, embedded
// templates) while remaining open to dependency injection.
type Orchestrator struct {
	registry        *render.Registry
	extra           []render.Renderer
	defaultRenderer string
	vanillaOptions  []vanilla.Option
	transformer     Transformer
	logger          *log.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Request describes the inputs for one render. Exactly one definitions
// source is used, in this order: Fields, DefinitionsFS/DefinitionsPath,
// OpenAPI/OperationID.
type Request struct {
	Fields []model.FieldDefinition

	DefinitionsFS   fs.FS
	DefinitionsPath string

	OpenAPI     []byte
	OperationID string

	Values model.Values
	Errors *model.Errors
	// ErrorPayload holds raw server errors keyed by path. They are mapped
	// onto definition keys and merged with Errors.
	ErrorPayload map[string][]string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	RenderOptions render.RenderOptions
}

// Generate resolves the definitions, applies the transformer and renders the
// form with the selected renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	fields, err := o.resolveFields(ctx, req)
	if err != nil {
		return nil, err
	}
	if o.transformer != nil {
		fields, err = o.transformer.Transform(ctx, fields)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transform fields: %w", err)
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, render.Request{
		Fields:  fields,
		Values:  req.Values,
		Errors:  mergeErrors(req.Errors, render.MapErrorPayload(fields, req.ErrorPayload)),
		Options: req.RenderOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	if o.logger != nil {
		o.logger.Printf("orchestrator: rendered %d fields with %s (%d bytes)", len(fields), renderer.Name(), len(output))
	}
	return output, nil
}

func (o *Orchestrator) resolveFields(ctx context.Context, req Request) ([]model.FieldDefinition, error) {
	switch {
	case req.Fields != nil:
		return append([]model.FieldDefinition(nil), req.Fields...), nil
	case req.DefinitionsFS != nil && req.DefinitionsPath != "":
		fields, err := fieldsource.LoadDefinitionsFS(req.DefinitionsFS, req.DefinitionsPath)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return fields, nil
	case len(req.OpenAPI) > 0:
		if req.OperationID == "" {
			return nil, errors.New("orchestrator: operation id is required")
		}
		fields, err := fieldsource.FromOpenAPI(ctx, req.OpenAPI, req.OperationID)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return fields, nil
	default:
		return nil, errors.New("orchestrator: no field definitions supplied")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(o.vanillaOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	for _, renderer := range o.extra {
		if err := o.registry.Register(renderer); err != nil && o.initialiseErr == nil {
			o.initialiseErr = fmt.Errorf("orchestrator: register renderer: %w", err)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func mergeErrors(base, mapped *model.Errors) *model.Errors {
	if mapped == nil || (len(mapped.Fields) == 0 && !mapped.FormPresent) {
		return base
	}
	if base == nil {
		return mapped
	}
	out := &model.Errors{
		Fields:      make(map[string][]string, len(base.Fields)+len(mapped.Fields)),
		Form:        append([]string(nil), base.Form...),
		FormPresent: base.FormPresent || mapped.FormPresent,
	}
	for key, messages := range base.Fields {
		out.Fields[key] = append([]string(nil), messages...)
	}
	for key, messages := range mapped.Fields {
		out.Fields[key] = render.MergeFormErrors(out.Fields[key], messages...)
	}
	out.Form = render.MergeFormErrors(out.Form, mapped.Form...)
	return out
}
