package field

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// ChangeFunc receives the coerced value after a widget change event.
type ChangeFunc func(model.Value)

// Builder configures the widget for one field kind. errs is nil when the field
// has no errors entry.
type Builder func(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element

// Registry maps field types to widget builders. The zero value is not usable;
// construct with NewRegistry or NewEmptyRegistry.
type Registry struct {
	mu       sync.RWMutex
	builders map[model.FieldType]Builder
}

// NewRegistry returns a registry with the built-in text, password, number and
// rating builders registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry returns a registry without builders; every type renders
// as unknown until registered.
func NewEmptyRegistry() *Registry {
	return &Registry{builders: make(map[model.FieldType]Builder)}
}

// Register associates a builder with a field type. Existing entries are
// replaced so callers can override built-ins.
func (r *Registry) Register(fieldType model.FieldType, builder Builder) error {
	if r == nil {
		return fmt.Errorf("field: registry is nil")
	}
	name := model.FieldType(strings.TrimSpace(string(fieldType)))
	if name == "" {
		return fmt.Errorf("field: field type is required")
	}
	if builder == nil {
		return fmt.Errorf("field: builder for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = builder
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(fieldType model.FieldType, builder Builder) {
	if err := r.Register(fieldType, builder); err != nil {
		panic(err)
	}
}

// Resolve returns the builder registered for the type.
func (r *Registry) Resolve(fieldType model.FieldType) (Builder, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[fieldType]
	return builder, ok
}

// Types returns the registered field types, sorted.
func (r *Registry) Types() []model.FieldType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FieldType, 0, len(r.builders))
	for name := range r.builders {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(model.FieldTypeText, buildText)
	r.MustRegister(model.FieldTypePassword, buildPassword)
	r.MustRegister(model.FieldTypeNumber, buildNumber)
	r.MustRegister(model.FieldTypeRating, buildRating)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry used by Render.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
