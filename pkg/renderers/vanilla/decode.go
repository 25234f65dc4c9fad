package vanilla

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// DecodeSubmission replays a posted HTML form through the widgets of fields.
// Each posted key is emitted into its element exactly like an interactive
// edit, so values go through the same coercion as the live form. Keys that
// were not posted keep their value from current.
func DecodeSubmission(fields []model.FieldDefinition, posted url.Values, current model.Values, registry *field.Registry) model.Values {
	result := current.Clone()
	if result == nil {
		result = model.Values{}
	}

	f := form.New(form.WithRegistry(registry), form.WithoutMemo())
	view := f.Render(result, func(next model.Values) { result = next }, fields, nil)

	for _, item := range view.Fields {
		raw, ok := posted[item.Definition.Key]
		if !ok {
			continue
		}
		value := ""
		if len(raw) > 0 {
			value = raw[len(raw)-1]
		}
		emitRaw(item.Element, value)
	}
	return result
}

func emitRaw(element widgets.Element, raw string) {
	switch el := element.(type) {
	case *widgets.TextInput:
		el.Emit(&raw)
	case *widgets.NumberInput:
		el.Emit(&raw)
	case *widgets.Rating:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			el.Emit(nil)
			return
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			el.Emit(nil)
			return
		}
		el.Emit(&n)
	}
}
