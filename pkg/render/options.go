package render

// RenderOptions describe per-request presentation data that renderers may use
// without affecting the form core.
type RenderOptions struct {
	// Title is shown above the form when set.
	Title string
	// Action and Method configure the HTML form element. Method defaults to
	// POST in the HTML renderer.
	Action string
	Method string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
	// Hidden lists hidden inputs emitted inside the form element.
	Hidden []HiddenField
}
