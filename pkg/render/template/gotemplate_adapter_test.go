package template_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func templatesFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.tpl":      {Data: []byte("Hello {{ name }}")},
		"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
		"use-filter.tpl": {Data: []byte("{{ name|shout }}")},
		"control.tpl":    {Data: []byte(`<input id="{{ key|controlid }}">`)},
		"stars.tpl":      {Data: []byte("{{ value|stars:max }}")},
		"escape.tpl":     {Data: []byte("<b>{{ label }}</b>")},
		"trim.tpl":       {Data: []byte("[{{ label|trim }}]")},
	}
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada" {
		t.Fatalf("render template mismatch result: %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)

	control, err := engine.RenderTemplate("control", map[string]any{"key": "first name"})
	if err != nil {
		t.Fatalf("render control: %v", err)
	}
	if control != `<input id="fk-first-name">` {
		t.Fatalf("unexpected control markup %q", control)
	}

	stars, err := engine.RenderTemplate("stars", map[string]any{"value": 2, "max": 4})
	if err != nil {
		t.Fatalf("render stars: %v", err)
	}
	if stars != "★★☆☆" {
		t.Fatalf("unexpected stars %q", stars)
	}
}

func TestGoTemplateEngine_AutoEscapes(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderTemplate("escape", map[string]any{"label": "<script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<b>&lt;script&gt;</b>" {
		t.Fatalf("expected escaped label, got %q", result)
	}
}

func TestGoTemplateEngine_TrimAndStringTemplates(t *testing.T) {
	engine := newEngine(t)

	trimmed, err := engine.RenderTemplate("trim", map[string]any{"label": "  Name  "})
	if err != nil {
		t.Fatalf("render trim: %v", err)
	}
	if trimmed != "[Name]" {
		t.Fatalf("unexpected trim output %q", trimmed)
	}

	inline, err := engine.Render("{{ key|controlid }}", map[string]any{"key": "age"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if inline != "fk-age" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}

func TestGoTemplateEngine_PostHookRewritesOutput(t *testing.T) {
	engine := newEngine(t)
	engine.RegisterPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
		return strings.TrimSpace(ctx.Output) + "\n", nil
	})

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada\n" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without a template filesystem")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
