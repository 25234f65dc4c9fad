package tui

import (
	"log"

	"github.com/goliatone/go-formkit/pkg/field"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme prefixes messages with plain ASCII markers.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "! ", InfoPrefix: "- "}
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithReview asks for confirmation after the last field and restarts the
// pass when the user declines.
func WithReview(enabled bool) Option {
	return func(r *Renderer) {
		r.review = enabled
	}
}

// WithFieldRegistry prompts through a custom field registry.
func WithFieldRegistry(registry *field.Registry) Option {
	return func(r *Renderer) {
		r.fields = registry
	}
}

// WithLogger reports unknown field types.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}
