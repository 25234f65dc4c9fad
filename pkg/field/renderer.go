// Package field selects and configures the widget for a single field
// definition. Unknown field types never fail: they render as an inline
// marker so the rest of the form keeps rendering.
package field

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/coerce"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

const defaultEmptyLabel = "Empty"

// Render builds the widget for def using the default registry.
func Render(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	return NewRenderer(nil).Render(def, value, onChange, errs)
}

// Renderer dispatches field definitions to registry builders.
type Renderer struct {
	registry *Registry
}

// NewRenderer returns a renderer backed by registry, or the default registry
// when nil.
func NewRenderer(registry *Registry) *Renderer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Renderer{registry: registry}
}

// Render builds the widget for def. errs is nil when the field has no errors
// entry; a non-nil slice (even empty) flags the widget as errored.
func (r *Renderer) Render(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	builder, ok := r.registry.Resolve(def.Type)
	if !ok {
		return UnknownMarker(def)
	}
	return builder(def, value, onChange, errs)
}

// UnknownMarker is the element rendered for unregistered field types.
func UnknownMarker(def model.FieldDefinition) *widgets.ErrorMarker {
	return &widgets.ErrorMarker{
		Key:     def.Key,
		Message: UnknownTypeMessage(def.Type),
	}
}

// UnknownTypeMessage formats the marker text for an unknown type.
func UnknownTypeMessage(fieldType model.FieldType) string {
	return fmt.Sprintf("Unknown field type: %q", string(fieldType))
}

func buildText(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	return textInput(def, value, onChange, errs)
}

func buildPassword(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	input := textInput(def, value, onChange, errs)
	input.Type = widgets.InputPassword
	return input
}

func textInput(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) *widgets.TextInput {
	return &widgets.TextInput{
		ID:          def.Key,
		Label:       def.Label,
		Type:        widgets.InputText,
		Value:       value.Text(),
		Placeholder: def.Placeholder,
		Required:    def.Required,
		Disabled:    def.Disabled,
		ReadOnly:    def.ReadOnly,
		Error:       errs != nil,
		HelperText:  joinErrors(errs),
		OnChange: func(raw *string) {
			emit(onChange, coerce.Text(raw))
		},
	}
}

func buildNumber(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	return &widgets.NumberInput{
		ID:          def.Key,
		Label:       def.Label,
		Value:       value.Text(),
		Placeholder: def.Placeholder,
		Required:    def.Required,
		Disabled:    def.Disabled,
		ReadOnly:    def.ReadOnly,
		Error:       errs != nil,
		HelperText:  joinErrors(errs),
		OnChange: func(raw *string) {
			emit(onChange, coerce.Number(raw))
		},
	}
}

// buildRating ignores errs: the rating widget has no inline error display.
func buildRating(def model.FieldDefinition, value model.Value, onChange ChangeFunc, _ []string) widgets.Element {
	rating := &widgets.Rating{
		ID:             def.Key,
		Label:          def.Label,
		EmptyLabelText: def.EmptyLabel,
		Disabled:       def.Disabled,
		ReadOnly:       def.ReadOnly,
		OnChange: func(raw *float64) {
			emit(onChange, coerce.Rating(raw))
		},
	}
	if rating.EmptyLabelText == "" {
		rating.EmptyLabelText = defaultEmptyLabel
	}
	if n, ok := value.Num(); ok {
		rating.Value = &n
	}
	if def.UpperBound != nil && *def.UpperBound >= 1 {
		upper := *def.UpperBound
		rating.Max = &upper
	}
	return rating
}

func joinErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	return strings.Join(errs, " ")
}

func emit(onChange ChangeFunc, value model.Value) {
	if onChange != nil {
		onChange(value)
	}
}
