// Package vanilla renders forms as server-side HTML with pongo2 templates.
// Every widget element maps to a component; themes can swap component
// templates through partial keys and inject CSS variables.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	gotemplate "github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
)

const (
	formTemplate       = "templates/form.tmpl"
	defaultSubmitLabel = "Submit"
	defaultMethod      = "post"

	// PartialForm lets a theme replace the outer form template.
	PartialForm = "forms.form"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	fields           *field.Registry
	components       *components.Registry
	overrides        map[string]string
	stylesheets      []string
	inlineStyles     bool
	logger           *log.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a go-theme renderer configuration: partial overrides,
// CSS variables and the asset URL resolver used for stylesheets.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithFieldRegistry renders field definitions through a custom field
// registry, for example one with additional field types.
func WithFieldRegistry(registry *field.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.fields = registry
		}
	}
}

// WithComponents replaces the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithComponentOverrides renders the named field keys with a specific
// component instead of the one matching their element kind.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if len(overrides) == 0 {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for key, name := range overrides {
			cfg.overrides[strings.TrimSpace(key)] = strings.TrimSpace(name)
		}
	}
}

// WithStylesheets links external stylesheets. Paths go through the theme
// asset resolver when one is configured.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		for _, href := range hrefs {
			if trimmed := strings.TrimSpace(href); trimmed != "" {
				cfg.stylesheets = append(cfg.stylesheets, trimmed)
			}
		}
	}
}

// WithInlineStyles toggles the embedded default stylesheet. It is on by
// default.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// WithLogger reports unknown field types while rendering.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	theme        rendererTheme
	assetURL     func(string) string
	fields       *field.Registry
	components   *components.Registry
	overrides    map[string]string
	stylesheets  []string
	inlineStyles bool
	logger       *log.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:    renderer,
		theme:        buildThemeContext(cfg.theme),
		assetURL:     themeAssetResolver(cfg.theme),
		fields:       cfg.fields,
		components:   cfg.components,
		overrides:    cfg.overrides,
		stylesheets:  cfg.stylesheets,
		inlineStyles: cfg.inlineStyles,
		logger:       cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render lays out req through a fresh form instance and renders the
// resulting view.
func (r *Renderer) Render(ctx context.Context, req render.Request) ([]byte, error) {
	f := form.New(form.WithRegistry(r.fields), form.WithLogger(r.logger))
	view := f.Render(req.Values, nil, req.Fields, req.Errors)
	return r.RenderView(ctx, view, req.Options)
}

// RenderView renders an already computed view, such as one produced by a
// long-lived form.Form owned by the caller.
func (r *Renderer) RenderView(ctx context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
	}

	componentRenderer := newComponentRenderer(r.templates, r.components, r.overrides, r.theme, sanitizeMessage)
	alerts, fields, err := componentRenderer.renderView(view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	componentStyles, scripts := componentRenderer.assets()

	payload := map[string]any{
		"form":        formContext(options),
		"alerts":      alerts,
		"fields":      fields,
		"stylesheets": r.resolveStylesheets(componentStyles),
		"scripts":     scriptContext(scripts),
		"theme":       r.theme.context(),
	}
	if r.inlineStyles {
		payload["inline_css"] = defaultStylesheet()
	}

	name := formTemplate
	if candidate := strings.TrimSpace(r.theme.Partials[PartialForm]); candidate != "" {
		name = candidate
	}
	result, err := r.templates.RenderTemplate(name, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) resolveStylesheets(componentStyles []string) []string {
	hrefs := make([]string, 0, len(r.stylesheets)+len(componentStyles))
	seen := make(map[string]struct{}, cap(hrefs))
	for _, href := range append(append([]string(nil), r.stylesheets...), componentStyles...) {
		if r.assetURL != nil {
			if resolved := r.assetURL(href); resolved != "" {
				href = resolved
			}
		}
		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}
		hrefs = append(hrefs, href)
	}
	return hrefs
}

func formContext(options render.RenderOptions) map[string]any {
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = defaultMethod
	}
	submit := strings.TrimSpace(options.SubmitLabel)
	if submit == "" {
		submit = defaultSubmitLabel
	}

	hidden := render.NormalizeHiddenFields(options.Hidden)
	hiddenCtx := make([]map[string]any, 0, len(hidden))
	for _, item := range hidden {
		hiddenCtx = append(hiddenCtx, map[string]any{"name": item.Name, "value": item.Value})
	}

	return map[string]any{
		"title":        options.Title,
		"action":       options.Action,
		"method":       method,
		"submit_label": submit,
		"hidden":       hiddenCtx,
	}
}

func scriptContext(scripts []components.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		scriptType := script.Type
		if script.Module {
			scriptType = "module"
		}
		out = append(out, map[string]any{
			"src":    script.Src,
			"type":   scriptType,
			"inline": script.Inline,
			"async":  script.Async,
			"defer":  script.Defer,
		})
	}
	return out
}
