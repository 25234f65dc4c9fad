package components

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/widgets"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameTextInput, Descriptor{
		Renderer: templateComponentRenderer(PartialText, templatePrefix+"text.tmpl", textPayload),
	})
	registry.MustRegister(NameNumberInput, Descriptor{
		Renderer: templateComponentRenderer(PartialNumber, templatePrefix+"number.tmpl", numberPayload),
	})
	registry.MustRegister(NameRating, Descriptor{
		Renderer: templateComponentRenderer(PartialRating, templatePrefix+"rating.tmpl", ratingPayload),
		Scripts:  []Script{{Inline: ratingScript}},
	})
	registry.MustRegister(NameAlert, Descriptor{
		Renderer: templateComponentRenderer(PartialAlert, templatePrefix+"alert.tmpl", alertPayload),
	})
	registry.MustRegister(NameErrorMarker, Descriptor{
		Renderer: templateComponentRenderer(PartialUnknown, templatePrefix+"unknown.tmpl", markerPayload),
	})

	return registry
}

type payloadFunc func(element widgets.Element, data ComponentData) (map[string]any, error)

func templateComponentRenderer(partialKey, templateName string, payload payloadFunc) Renderer {
	return func(buf *bytes.Buffer, element widgets.Element, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		field, err := payload(element, data)
		if err != nil {
			return err
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, map[string]any{
			"field": field,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func textPayload(element widgets.Element, _ ComponentData) (map[string]any, error) {
	input, ok := element.(*widgets.TextInput)
	if !ok {
		return nil, unexpectedElement(NameTextInput, element)
	}
	inputType := input.Type
	if inputType == "" {
		inputType = widgets.InputText
	}
	return map[string]any{
		"key":         input.ID,
		"label":       input.Label,
		"type":        inputType,
		"value":       input.Value,
		"placeholder": input.Placeholder,
		"required":    input.Required,
		"disabled":    input.Disabled,
		"readonly":    input.ReadOnly,
		"error":       input.Error,
		"helper":      input.HelperText,
	}, nil
}

func numberPayload(element widgets.Element, _ ComponentData) (map[string]any, error) {
	input, ok := element.(*widgets.NumberInput)
	if !ok {
		return nil, unexpectedElement(NameNumberInput, element)
	}
	return map[string]any{
		"key":         input.ID,
		"label":       input.Label,
		"value":       input.Value,
		"placeholder": input.Placeholder,
		"required":    input.Required,
		"disabled":    input.Disabled,
		"readonly":    input.ReadOnly,
		"error":       input.Error,
		"helper":      input.HelperText,
	}, nil
}

// ratingPayload precomputes the radio options: an empty choice followed by
// one choice per star up to the effective maximum.
func ratingPayload(element widgets.Element, _ ComponentData) (map[string]any, error) {
	rating, ok := element.(*widgets.Rating)
	if !ok {
		return nil, unexpectedElement(NameRating, element)
	}
	upper := rating.EffectiveMax()

	options := make([]map[string]any, 0, upper+1)
	options = append(options, map[string]any{
		"value":   "",
		"label":   rating.EmptyLabelText,
		"checked": rating.Value == nil,
	})
	for i := 1; i <= upper; i++ {
		options = append(options, map[string]any{
			"value":   strconv.Itoa(i),
			"label":   strconv.Itoa(i),
			"checked": rating.Value != nil && *rating.Value == float64(i),
		})
	}

	var value any
	if rating.Value != nil {
		value = *rating.Value
	}
	return map[string]any{
		"key":      rating.ID,
		"label":    rating.Label,
		"value":    value,
		"max":      upper,
		"options":  options,
		"disabled": rating.Disabled,
		"readonly": rating.ReadOnly,
	}, nil
}

func alertPayload(element widgets.Element, data ComponentData) (map[string]any, error) {
	alert, ok := element.(*widgets.Alert)
	if !ok {
		return nil, unexpectedElement(NameAlert, element)
	}
	message := alert.Message
	if data.Sanitize != nil {
		message = data.Sanitize(message)
	} else {
		message = html.EscapeString(message)
	}
	return map[string]any{
		"severity": alert.Severity,
		"variant":  alert.Variant,
		"message":  message,
	}, nil
}

func markerPayload(element widgets.Element, _ ComponentData) (map[string]any, error) {
	marker, ok := element.(*widgets.ErrorMarker)
	if !ok {
		return nil, unexpectedElement(NameErrorMarker, element)
	}
	return map[string]any{
		"key":     marker.Key,
		"message": marker.Message,
	}, nil
}

func unexpectedElement(component string, element widgets.Element) error {
	return fmt.Errorf("components: %s cannot render %T", component, element)
}

// ratingScript mirrors the selected radio into the star summary next to the
// rating group.
const ratingScript = `(function(){
  document.addEventListener("change", function(event){
    var input = event.target;
    if (!input || !input.matches || !input.matches("[data-fk-rating] input[type=radio]")) { return; }
    var group = input.closest("[data-fk-rating]");
    var summary = group && group.querySelector("[data-fk-rating-summary]");
    if (!summary) { return; }
    var max = parseInt(group.getAttribute("data-fk-rating-max"), 10) || 5;
    var value = parseInt(input.value, 10) || 0;
    summary.textContent = "★".repeat(value) + "☆".repeat(max - value);
  });
})();`
