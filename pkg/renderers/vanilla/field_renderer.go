package vanilla

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// componentRenderer turns widget elements into markup through the component
// registry and records which components were used so their assets can be
// emitted once.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	theme     rendererTheme
	sanitize  func(string) string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides map[string]string, theme rendererTheme, sanitize func(string) string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		overrides:      cloneStringMap(overrides),
		theme:          theme,
		sanitize:       sanitize,
		usedComponents: make(map[string]struct{}),
	}
}

// renderView renders the alerts and fields of view in order.
func (r *componentRenderer) renderView(view form.View) (alerts, fields []string, err error) {
	alerts = make([]string, 0, len(view.Alerts))
	for idx, element := range view.Alerts {
		markup, err := r.render(element, "")
		if err != nil {
			return nil, nil, fmt.Errorf("alert %d: %w", idx, err)
		}
		alerts = append(alerts, markup)
	}

	fields = make([]string, 0, len(view.Fields))
	for _, item := range view.Fields {
		markup, err := r.render(item.Element, item.Definition.Key)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, markup)
	}
	return alerts, fields, nil
}

func (r *componentRenderer) render(element widgets.Element, key string) (string, error) {
	if element == nil {
		return "", fmt.Errorf("nil element for field %q", key)
	}

	componentName := r.overrideFor(key)
	if componentName == "" {
		componentName = string(element.Kind())
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, key)
	}

	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.theme.Partials,
		Sanitize:      r.sanitize,
	}

	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, element, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, key, err)
	}

	r.usedComponents[componentName] = struct{}{}
	return buf.String(), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func (r *componentRenderer) overrideFor(key string) string {
	if len(r.overrides) == 0 || key == "" {
		return ""
	}
	return r.overrides[key]
}
