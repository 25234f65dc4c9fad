package form

import (
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Alerts renders the form-level entry of errs as one error alert per message,
// in order. Nothing is rendered when the entry is absent.
func Alerts(errs *model.Errors) []widgets.Element {
	if errs == nil || !errs.FormPresent {
		return nil
	}
	return AlertsFor(errs.Form...)
}

// AlertsFor renders one error alert per message.
func AlertsFor(messages ...string) []widgets.Element {
	if len(messages) == 0 {
		return nil
	}
	out := make([]widgets.Element, 0, len(messages))
	for _, message := range messages {
		out = append(out, &widgets.Alert{
			Severity: widgets.SeverityError,
			Message:  message,
		})
	}
	return out
}
