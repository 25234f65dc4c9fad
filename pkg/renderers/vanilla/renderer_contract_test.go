package vanilla_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formkit/pkg/testsupport"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

func renderSample(t *testing.T, req render.Request, options ...vanilla.Option) string {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func TestRenderer_RenderContract(t *testing.T) {
	out := renderSample(t, render.Request{
		Fields: testsupport.SampleFields(),
		Values: model.Values{
			"name":   model.String("Ada"),
			"age":    model.Int(36),
			"rating": model.Int(3),
		},
		Options: render.RenderOptions{Title: "Profile", Action: "/profile"},
	})

	for _, fragment := range []string{
		`<form class="fk-form" method="post" action="/profile" novalidate>`,
		`<h2 class="fk-title">Profile</h2>`,
		`<input class="fk-input" id="fk-name" name="name" type="text" value="Ada" required>`,
		`<input class="fk-input" id="fk-password" name="password" type="password" value="">`,
		`<input class="fk-input" id="fk-age" name="age" type="text" inputmode="numeric" value="36">`,
		`<input type="radio" name="rating" value="3" checked>`,
		`<input type="radio" name="rating" value=""> Empty`,
		"★★★☆☆",
		`<button class="fk-submit" type="submit">Submit</button>`,
		`<style data-fk-styles>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}

	order := []string{`name="name"`, `name="password"`, `name="age"`, `name="rating"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx <= last {
			t.Fatalf("field %s out of order in output:\n%s", marker, out)
		}
		last = idx
	}
	if got := strings.Count(out, "data-fk-rating-summary]"); got != 1 {
		t.Fatalf("expected the rating script once, got %d", got)
	}
}

func TestRenderer_RendersErrorsAndAlerts(t *testing.T) {
	errs, err := model.ParseErrors(map[string]any{
		"name":                  []any{"Required.", "Too short."},
		model.NonFieldErrorsKey: []any{"<b>Denied</b><script>alert(1)</script>", "Try again"},
	})
	if err != nil {
		t.Fatalf("parse errors: %v", err)
	}

	out := renderSample(t, render.Request{
		Fields: testsupport.SampleFields(),
		Errors: errs,
	})

	for _, fragment := range []string{
		`<div class="fk-field fk-field--error" data-fk-field="name">`,
		`aria-invalid="true" aria-describedby="fk-name-helper"`,
		`<p class="fk-helper fk-helper--error" id="fk-name-helper">Required. Too short.</p>`,
		`<div class="fk-alert fk-alert--error" role="alert"><b>Denied</b></div>`,
		`<div class="fk-alert fk-alert--error" role="alert">Try again</div>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "alert(1)") {
		t.Fatalf("alert markup was not sanitised:\n%s", out)
	}
	if strings.Index(out, "Try again") > strings.Index(out, `name="name"`) {
		t.Fatalf("alerts must precede the fields:\n%s", out)
	}
	if !strings.Contains(out, `<div class="fk-field" data-fk-field="age">`) {
		t.Fatalf("age has no errors entry and must not be flagged:\n%s", out)
	}
}

func TestRenderer_UnknownTypeRendersMarker(t *testing.T) {
	out := renderSample(t, render.Request{
		Fields: []model.FieldDefinition{
			{Key: "before", Type: model.FieldTypeText},
			{Key: "odd", Type: "mystery"},
			{Key: "after", Type: model.FieldTypeNumber},
		},
	})

	text := html.UnescapeString(out)
	if !strings.Contains(text, `Unknown field type: "mystery"`) {
		t.Fatalf("expected unknown marker, got:\n%s", out)
	}
	if !strings.Contains(out, `name="after"`) {
		t.Fatalf("expected sibling after the marker to render:\n%s", out)
	}
}

func TestRenderer_NegativeUpperBoundRendersDefaultRating(t *testing.T) {
	out := renderSample(t, render.Request{
		Fields: []model.FieldDefinition{
			{Key: "stars", Type: model.FieldTypeRating, UpperBound: model.IntPtr(-3)},
			{Key: "after", Type: model.FieldTypeText},
		},
	})

	if !strings.Contains(out, `data-fk-rating-max="5"`) {
		t.Fatalf("expected default rating max:\n%s", out)
	}
	if !strings.Contains(out, `name="after"`) {
		t.Fatalf("expected sibling after the rating to render:\n%s", out)
	}
}

func TestRenderer_EscapesValues(t *testing.T) {
	out := renderSample(t, render.Request{
		Fields: []model.FieldDefinition{{Key: "name", Type: model.FieldTypeText, Label: "<i>Name</i>"}},
		Values: model.Values{"name": model.String(`"><script>x</script>`)},
	})
	if strings.Contains(out, "<script>x</script>") || strings.Contains(out, "<i>Name</i>") {
		t.Fatalf("expected values and labels to be escaped:\n%s", out)
	}
}

func TestRenderer_ThemeAndHiddenFields(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"fk-accent": "#f00"},
		AssetURL: func(path string) string {
			return "/static/" + strings.TrimPrefix(path, "/")
		},
	}
	out := renderSample(t, render.Request{
		Fields: testsupport.SampleFields(),
		Options: render.RenderOptions{
			Method:      "GET",
			SubmitLabel: "Save",
			Hidden: []render.HiddenField{
				render.CSRFToken("_csrf", "first"),
				render.CSRFToken("_csrf", "token"),
				render.Hidden("step", 2),
			},
		},
	}, vanilla.WithTheme(cfg), vanilla.WithInlineStyles(false), vanilla.WithStylesheets("/app.css"))

	for _, fragment := range []string{
		`<style data-fk-theme="acme">`,
		"--fk-accent: #f00;",
		`<link rel="stylesheet" href="/static/app.css">`,
		`method="get"`,
		`<input type="hidden" name="_csrf" value="token">`,
		`<input type="hidden" name="step" value="2">`,
		`>Save</button>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, `value="first"`) || strings.Contains(out, "data-fk-styles") {
		t.Fatalf("unexpected duplicate hidden field or inline styles:\n%s", out)
	}
}

func TestRenderer_ThemePartialOverridesComponent(t *testing.T) {
	files := fstest.MapFS{
		"templates/form.tmpl":               {Data: []byte(`{% for markup in fields %}{{ markup|safe }}|{% endfor %}`)},
		"templates/components/text.tmpl":    {Data: []byte(`default-text`)},
		"templates/components/number.tmpl":  {Data: []byte(`number`)},
		"templates/components/rating.tmpl":  {Data: []byte(`rating`)},
		"templates/components/alert.tmpl":   {Data: []byte(`alert`)},
		"templates/components/unknown.tmpl": {Data: []byte(`unknown`)},
		"themes/acme/text.tmpl":             {Data: []byte(`acme-text:{{ field.key }}`)},
	}
	out := renderSample(t, render.Request{
		Fields: []model.FieldDefinition{
			{Key: "name", Type: model.FieldTypeText},
			{Key: "stars", Type: model.FieldTypeRating},
		},
	}, vanilla.WithTemplatesFS(files), vanilla.WithTheme(&theme.RendererConfig{
		Partials: map[string]string{"forms.text": "themes/acme/text.tmpl"},
	}))

	if out != "acme-text:name|rating|" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_ComponentOverride(t *testing.T) {
	files := fstest.MapFS{
		"templates/form.tmpl":            {Data: []byte(`{% for markup in fields %}{{ markup|safe }}|{% endfor %}`)},
		"templates/components/text.tmpl": {Data: []byte(`text`)},
	}
	registry := components.NewDefaultRegistry()
	registry.MustRegister("shout", components.Descriptor{
		Renderer: func(buf *bytes.Buffer, element widgets.Element, _ components.ComponentData) error {
			input, ok := element.(*widgets.TextInput)
			if !ok {
				return fmt.Errorf("unexpected %T", element)
			}
			buf.WriteString(strings.ToUpper(input.Value))
			return nil
		},
	})

	out := renderSample(t, render.Request{
		Fields: []model.FieldDefinition{
			{Key: "name", Type: model.FieldTypeText},
			{Key: "city", Type: model.FieldTypeText},
		},
		Values: model.Values{"name": model.String("ada")},
	},
		vanilla.WithTemplatesFS(files),
		vanilla.WithComponents(registry),
		vanilla.WithComponentOverrides(map[string]string{"name": "shout"}),
	)

	if out != "ADA|text|" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_RespectsCancelledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, render.Request{Fields: testsupport.SampleFields()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_RegistersByName(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	got, err := registry.Get("vanilla")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got.ContentType())
	}
}

func TestDecodeSubmission_CoercesPostedValues(t *testing.T) {
	fields := testsupport.SampleFields()
	posted := url.Values{
		"name":   {"Grace"},
		"age":    {"-4x"},
		"rating": {""},
		"extra":  {"ignored"},
	}
	current := model.Values{"password": model.String("keep"), "rating": model.Int(2)}

	got := vanilla.DecodeSubmission(fields, posted, current, nil)

	want := model.Values{
		"name":     model.String("Grace"),
		"password": model.String("keep"),
		"age":      model.Int(4),
		"rating":   model.Null(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded values mismatch (-want +got):\n%s", diff)
	}
	if current.Get("rating") != model.Int(2) {
		t.Fatalf("current values must not be mutated")
	}
}

func TestDecodeSubmission_RatingParsesNumber(t *testing.T) {
	got := vanilla.DecodeSubmission(testsupport.SampleFields(), url.Values{"rating": {"4"}}, nil, nil)
	if got.Get("rating") != model.Int(4) {
		t.Fatalf("expected rating 4, got %#v", got.Get("rating"))
	}
}
