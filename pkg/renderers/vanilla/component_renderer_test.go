package vanilla

import (
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

func TestComponentRendererUnknownComponent(t *testing.T) {
	renderer := newComponentRenderer(nil, components.NewDefaultRegistry(), map[string]string{
		"field": "missing",
	}, rendererTheme{}, nil)

	_, err := renderer.render(&widgets.TextInput{ID: "field"}, "field")
	if err == nil {
		t.Fatalf("expected error when component is missing")
	}

	if got := err.Error(); got != `component "missing" not registered for field "field"` {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestComponentRendererUsesThemePartial(t *testing.T) {
	template := &recordingTemplateRenderer{}
	renderer := newComponentRenderer(
		template,
		components.NewDefaultRegistry(),
		nil,
		rendererTheme{Partials: map[string]string{
			components.PartialText: "themes/custom/text.tmpl",
		}},
		nil,
	)

	_, err := renderer.render(&widgets.TextInput{ID: "username"}, "username")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(template.calls) == 0 {
		t.Fatalf("expected template renderer to be called")
	}
	if got := template.calls[0]; got != "themes/custom/text.tmpl" {
		t.Fatalf("theme partial not applied, got %q", got)
	}
}

func TestComponentRendererFollowsViewOrder(t *testing.T) {
	template := &recordingTemplateRenderer{}
	renderer := newComponentRenderer(template, nil, nil, rendererTheme{}, nil)

	view := form.New().Render(model.Values{}, nil, []model.FieldDefinition{
		{Key: "b", Type: model.FieldTypeRating},
		{Key: "a", Type: model.FieldTypeText},
		{Key: "c", Type: "mystery"},
	}, &model.Errors{Form: []string{"top"}, FormPresent: true})

	alerts, fields, err := renderer.renderView(view)
	if err != nil {
		t.Fatalf("render view: %v", err)
	}
	if len(alerts) != 1 || len(fields) != 3 {
		t.Fatalf("expected 1 alert and 3 fields, got %d and %d", len(alerts), len(fields))
	}

	want := []string{
		"templates/components/alert.tmpl",
		"templates/components/rating.tmpl",
		"templates/components/text.tmpl",
		"templates/components/unknown.tmpl",
	}
	if strings.Join(template.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected template order: %v", template.calls)
	}

	_, scripts := renderer.assets()
	if len(scripts) != 1 {
		t.Fatalf("expected the rating script once, got %d", len(scripts))
	}
}

type recordingTemplateRenderer struct {
	calls []string
}

func (r *recordingTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return "", nil
}

func (r *recordingTemplateRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplateRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	return nil
}

func (r *recordingTemplateRenderer) GlobalContext(data any) error {
	return nil
}
