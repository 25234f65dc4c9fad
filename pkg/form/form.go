// Package form renders an ordered list of field definitions against a values
// mapping and an errors structure. It merges single-field edits back into the
// whole-form mapping through a state.Store so that edits to several fields
// before the host re-renders are all kept.
package form

import (
	"log"
	"sync"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// ChangeFunc receives the complete merged values mapping after an edit.
type ChangeFunc func(next model.Values)

// FieldView pairs a definition with the element rendered for it.
type FieldView struct {
	Definition model.FieldDefinition
	Element    widgets.Element
}

// View is the output of one render pass: form-level alerts above the fields,
// fields in definition order.
type View struct {
	Alerts []widgets.Element
	Fields []FieldView
}

// Element returns the element rendered for key.
func (v View) Element(key string) (widgets.Element, bool) {
	for _, item := range v.Fields {
		if item.Definition.Key == key {
			return item.Element, true
		}
	}
	return nil, false
}

// Option configures a Form.
type Option func(*Form)

// WithRegistry renders fields through registry instead of the default one.
func WithRegistry(registry *field.Registry) Option {
	return func(f *Form) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// WithStore shares an existing snapshot store with the form. Hosts that also
// commit through the store see the same version sequence.
func WithStore(store *state.Store) Option {
	return func(f *Form) {
		if store != nil {
			f.store = store
		}
	}
}

// WithLogger reports unknown field types, once per key.
func WithLogger(logger *log.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithoutMemo rebuilds every element on every pass.
func WithoutMemo() Option {
	return func(f *Form) {
		f.memoDisabled = true
	}
}

// Form is a stateful form instance. It keeps the latest values snapshot, the
// latest host callback and the per-field render cache between passes.
type Form struct {
	registry     *field.Registry
	store        *state.Store
	logger       *log.Logger
	memoDisabled bool

	renderer *field.Renderer
	memo     *field.Memo

	mu       sync.RWMutex
	onChange ChangeFunc
	handlers map[string]field.ChangeFunc
	reported map[string]struct{}
}

// New constructs a Form applying options.
func New(options ...Option) *Form {
	f := &Form{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.registry == nil {
		f.registry = field.DefaultRegistry()
	}
	if f.store == nil {
		f.store = state.NewStore(nil)
	}
	f.renderer = field.NewRenderer(f.registry)
	f.memo = field.NewMemo(f.renderer)
	f.handlers = make(map[string]field.ChangeFunc)
	f.reported = make(map[string]struct{})
	return f
}

// Store exposes the snapshot store backing the form.
func (f *Form) Store() *state.Store {
	return f.store
}

// Render lays out defs in order. Each field shows values[key] (the empty
// string when absent) and its errors entry when one exists. values becomes
// the snapshot later edits merge into, and onChange replaces the callback
// used by every field handler, including handlers on cached elements.
func (f *Form) Render(values model.Values, onChange ChangeFunc, defs []model.FieldDefinition, errs *model.Errors) View {
	f.store.Commit(values)

	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()

	view := View{
		Alerts: Alerts(errs),
		Fields: make([]FieldView, 0, len(defs)),
	}
	for _, def := range defs {
		value := model.String("")
		if values.Has(def.Key) {
			value = values.Get(def.Key)
		}

		var fieldErrs []string
		if messages, ok := errs.For(def.Key); ok {
			fieldErrs = messages
			if fieldErrs == nil {
				fieldErrs = []string{}
			}
		}

		element := f.renderField(def, value, fieldErrs)
		view.Fields = append(view.Fields, FieldView{Definition: def, Element: element})
	}

	f.memo.Retain(model.Keys(defs))
	return view
}

func (f *Form) renderField(def model.FieldDefinition, value model.Value, errs []string) widgets.Element {
	handler := f.handlerFor(def.Key)
	var element widgets.Element
	if f.memoDisabled {
		element = f.renderer.Render(def, value, handler, errs)
	} else {
		element = f.memo.Render(def, value, handler, errs)
	}
	if _, unknown := element.(*widgets.ErrorMarker); unknown {
		f.reportUnknown(def)
	}
	return element
}

// handlerFor returns the stable change handler for key. It merges into the
// store's latest snapshot and hands the merged copy to the current callback.
func (f *Form) handlerFor(key string) field.ChangeFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	if handler, ok := f.handlers[key]; ok {
		return handler
	}
	handler := func(value model.Value) {
		merged, _ := f.store.Set(key, value)
		f.mu.RLock()
		onChange := f.onChange
		f.mu.RUnlock()
		if onChange != nil {
			onChange(merged)
		}
	}
	f.handlers[key] = handler
	return handler
}

func (f *Form) reportUnknown(def model.FieldDefinition) {
	if f.logger == nil {
		return
	}
	f.mu.Lock()
	_, seen := f.reported[def.Key]
	f.reported[def.Key] = struct{}{}
	f.mu.Unlock()
	if !seen {
		f.logger.Printf("form: field %q: %s", def.Key, field.UnknownTypeMessage(def.Type))
	}
}
