// Package gotemplate backs template.TemplateRenderer with the
// github.com/goliatone/go-template engine and registers the filters the form
// templates rely on.
package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"

	"github.com/goliatone/go-formkit/pkg/render/template"
)

const defaultExtension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension appended to bare names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(ext); trimmed != "" {
			cfg.extension = trimmed
		}
	}
}

// Engine is a go-template renderer preloaded with the form filters.
type Engine struct {
	*gotemplate.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. A template filesystem is required.
func New(options ...Option) (*Engine, error) {
	cfg := config{extension: defaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: template filesystem is required")
	}

	engine, err := gotemplate.NewRenderer(
		gotemplate.WithFS(cfg.templates),
		gotemplate.WithExtension(cfg.extension),
		gotemplate.WithTemplateFunc(map[string]any{
			"controlid": filterControlID,
			"stars":     filterStars,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: create engine: %w", err)
	}
	return &Engine{Engine: engine}, nil
}

// filterControlID turns a field key into the DOM id used by labels and
// controls: "fk-" followed by the key with whitespace collapsed to dashes.
func filterControlID(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	key := strings.Join(strings.Fields(in.String()), "-")
	if key == "" {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue("fk-" + key), nil
}

// filterStars renders a rating as filled and empty stars. The parameter is
// the maximum; a nil input renders only empty stars.
func filterStars(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	limit := 5
	if param != nil && param.IsNumber() && param.Integer() > 0 {
		limit = param.Integer()
	}
	filled := 0
	if !in.IsNil() && in.IsNumber() {
		filled = int(in.Float())
	}
	filled = min(max(filled, 0), limit)

	var b strings.Builder
	b.Grow(limit * utf8.UTFMax)
	b.WriteString(strings.Repeat("★", filled))
	b.WriteString(strings.Repeat("☆", limit-filled))
	return pongo2.AsValue(b.String()), nil
}
