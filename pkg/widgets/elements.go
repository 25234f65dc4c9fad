package widgets

// Kind identifies an element variant.
type Kind string

const (
	KindTextInput   Kind = "text-input"
	KindNumberInput Kind = "number-input"
	KindRating      Kind = "rating"
	KindAlert       Kind = "alert"
	KindErrorMarker Kind = "error-marker"
)

// Input modes accepted by TextInput.Type.
const (
	InputText     = "text"
	InputPassword = "password"
)

// DefaultRatingMax is the maximum a rating widget shows when Max is nil.
const DefaultRatingMax = 5

// Element is one renderable widget. Implementations are pointer types so a
// toolkit can compare identities across render passes.
type Element interface {
	Kind() Kind
}

// TextInput is the text/password widget.
type TextInput struct {
	ID          string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Required    bool
	Disabled    bool
	ReadOnly    bool
	Error       bool
	HelperText  string
	// OnChange receives the raw input; nil means the event carried no value.
	OnChange func(raw *string)
}

func (*TextInput) Kind() Kind { return KindTextInput }

// Emit forwards a raw change event when a handler is wired.
func (w *TextInput) Emit(raw *string) {
	if w != nil && w.OnChange != nil {
		w.OnChange(raw)
	}
}

// NumberInput is the numeric widget. It has the text shape without a forced
// input type.
type NumberInput struct {
	ID          string
	Label       string
	Value       string
	Placeholder string
	Required    bool
	Disabled    bool
	ReadOnly    bool
	Error       bool
	HelperText  string
	OnChange    func(raw *string)
}

func (*NumberInput) Kind() Kind { return KindNumberInput }

func (w *NumberInput) Emit(raw *string) {
	if w != nil && w.OnChange != nil {
		w.OnChange(raw)
	}
}

// Rating is the star-rating widget. Value is nil when nothing is selected and
// Max is nil when the toolkit default applies.
type Rating struct {
	ID             string
	Label          string
	EmptyLabelText string
	Value          *float64
	Max            *int
	Disabled       bool
	ReadOnly       bool
	OnChange       func(raw *float64)
}

func (*Rating) Kind() Kind { return KindRating }

func (w *Rating) Emit(raw *float64) {
	if w != nil && w.OnChange != nil {
		w.OnChange(raw)
	}
}

// EffectiveMax returns Max, or DefaultRatingMax when Max is unset or below 1.
func (w *Rating) EffectiveMax() int {
	if w == nil || w.Max == nil || *w.Max < 1 {
		return DefaultRatingMax
	}
	return *w.Max
}

// Severity values for Alert.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Alert renders a single message banner.
type Alert struct {
	Severity string
	Variant  string
	Message  string
}

func (*Alert) Kind() Kind { return KindAlert }

// ErrorMarker is the inline diagnostic shown in place of a widget that could
// not be built.
type ErrorMarker struct {
	Key     string
	Message string
}

func (*ErrorMarker) Kind() Kind { return KindErrorMarker }
