package components

import "github.com/goliatone/go-formkit/pkg/widgets"

// Canonical component names used by the vanilla renderer and default
// registry. They match the widget element kinds.
const (
	NameTextInput   = string(widgets.KindTextInput)
	NameNumberInput = string(widgets.KindNumberInput)
	NameRating      = string(widgets.KindRating)
	NameAlert       = string(widgets.KindAlert)
	NameErrorMarker = string(widgets.KindErrorMarker)
)

// Theme partial keys consulted before the built-in templates.
const (
	PartialText    = "forms.text"
	PartialNumber  = "forms.number"
	PartialRating  = "forms.rating"
	PartialAlert   = "forms.alert"
	PartialUnknown = "forms.unknown"
)
