package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Renderer turns a form request into a byte representation (HTML markup,
// collected values from an interactive session, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, req Request) ([]byte, error)
}

// Request carries everything a renderer needs for one pass.
type Request struct {
	// Fields is the ordered list of definitions; it is the only source of
	// field order.
	Fields []model.FieldDefinition
	// Values holds the current values keyed by field key.
	Values model.Values
	// Errors carries per-field and form-level feedback. Nil means none.
	Errors *model.Errors
	// Options carries renderer-agnostic presentation hints.
	Options RenderOptions
}
