package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

const noneOption = "(none)"

// Session is a terminal host for one form. It owns the values mapping,
// re-renders the form after every committed edit and prompts each field
// through the driver.
type Session struct {
	driver PromptDriver
	theme  Theme
	review bool

	form   *form.Form
	fields []model.FieldDefinition
	errs   *model.Errors
	values model.Values

	commits int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionTheme applies message prefixes to the session.
func WithSessionTheme(theme Theme) SessionOption {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithSessionReview enables the confirm-and-restart loop.
func WithSessionReview(enabled bool) SessionOption {
	return func(s *Session) {
		s.review = enabled
	}
}

// WithFormOptions configures the underlying form instance.
func WithFormOptions(options ...form.Option) SessionOption {
	return func(s *Session) {
		s.form = form.New(options...)
	}
}

// NewSession prepares a session over fields seeded with values and errs.
func NewSession(driver PromptDriver, fields []model.FieldDefinition, values model.Values, errs *model.Errors, options ...SessionOption) *Session {
	s := &Session{
		driver: driver,
		fields: fields,
		errs:   errs,
		values: values.Clone(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.form == nil {
		s.form = form.New()
	}
	if s.values == nil {
		s.values = model.Values{}
	}
	return s
}

// Values returns a copy of the values committed so far.
func (s *Session) Values() model.Values {
	return s.values.Clone()
}

// Commits reports how many edits the session committed.
func (s *Session) Commits() int {
	return s.commits
}

// View renders the form against the current values.
func (s *Session) View() form.View {
	return s.form.Render(s.values, s.commit, s.fields, s.errs)
}

func (s *Session) commit(next model.Values) {
	s.values = next
	s.commits++
}

// Run prints form-level alerts, then prompts every field in order. Each
// prompt sees a fresh render so it reflects earlier answers.
func (s *Session) Run(ctx context.Context) error {
	if s.driver == nil {
		return ErrNoDriver
	}
	if ctx == nil {
		return errors.New("tui: context is required")
	}

	view := s.View()
	for _, element := range view.Alerts {
		alert, ok := element.(*widgets.Alert)
		if !ok {
			continue
		}
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+alert.Message); err != nil {
			return err
		}
	}

	for {
		for idx := range s.fields {
			if err := ctx.Err(); err != nil {
				return err
			}
			view = s.View()
			if idx >= len(view.Fields) {
				break
			}
			if err := s.prompt(ctx, view.Fields[idx]); err != nil {
				return fmt.Errorf("tui: field %q: %w", view.Fields[idx].Definition.Key, err)
			}
		}
		if !s.review {
			return nil
		}
		done, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.theme.PromptPrefix + "Submit these values?", Default: true})
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) prompt(ctx context.Context, item form.FieldView) error {
	label := s.theme.PromptPrefix + item.Definition.DisplayLabel()

	switch el := item.Element.(type) {
	case *widgets.TextInput:
		if el.Disabled || el.ReadOnly {
			return s.driver.Info(ctx, s.theme.InfoPrefix+fmt.Sprintf("%s: %s", item.Definition.DisplayLabel(), maskIfPassword(el)))
		}
		if err := s.showHelper(ctx, el.Error, el.HelperText); err != nil {
			return err
		}
		cfg := InputConfig{
			Message:     label,
			Default:     el.Value,
			Placeholder: el.Placeholder,
			Validator:   requiredValidator(el.Required),
		}
		if el.Type == widgets.InputPassword {
			if el.Value != "" {
				cfg.Validator = nil
			}
			answer, err := s.driver.Password(ctx, cfg)
			if err != nil {
				return err
			}
			if answer == "" && el.Value != "" {
				return nil
			}
			el.Emit(&answer)
			return nil
		}
		answer, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		el.Emit(&answer)
		return nil

	case *widgets.NumberInput:
		if el.Disabled || el.ReadOnly {
			return s.driver.Info(ctx, s.theme.InfoPrefix+fmt.Sprintf("%s: %s", item.Definition.DisplayLabel(), el.Value))
		}
		if err := s.showHelper(ctx, el.Error, el.HelperText); err != nil {
			return err
		}
		answer, err := s.driver.Input(ctx, InputConfig{
			Message:     label,
			Default:     el.Value,
			Placeholder: el.Placeholder,
			Validator:   requiredValidator(el.Required),
		})
		if err != nil {
			return err
		}
		el.Emit(&answer)
		return nil

	case *widgets.Rating:
		if el.Disabled || el.ReadOnly {
			return s.driver.Info(ctx, s.theme.InfoPrefix+fmt.Sprintf("%s: %s", item.Definition.DisplayLabel(), ratingText(el)))
		}
		options, current := ratingOptions(el)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: current,
		})
		if err != nil {
			return err
		}
		if idx <= 0 || idx >= len(options) {
			el.Emit(nil)
			return nil
		}
		value := float64(idx)
		el.Emit(&value)
		return nil

	case *widgets.ErrorMarker:
		return s.driver.Info(ctx, s.theme.ErrorPrefix+el.Message)

	default:
		return nil
	}
}

func (s *Session) showHelper(ctx context.Context, flagged bool, helper string) error {
	if !flagged || strings.TrimSpace(helper) == "" {
		return nil
	}
	return s.driver.Info(ctx, s.theme.ErrorPrefix+helper)
}

// ratingOptions lists the empty choice followed by 1..max and returns the
// index of the current value.
func ratingOptions(el *widgets.Rating) ([]string, int) {
	upper := el.EffectiveMax()
	empty := el.EmptyLabelText
	if empty == "" {
		empty = noneOption
	}
	options := make([]string, 0, upper+1)
	options = append(options, empty)
	current := 0
	for i := 1; i <= upper; i++ {
		options = append(options, strconv.Itoa(i))
		if el.Value != nil && *el.Value == float64(i) {
			current = i
		}
	}
	return options, current
}

func ratingText(el *widgets.Rating) string {
	upper := el.EffectiveMax()
	filled := 0
	if el.Value != nil {
		filled = int(*el.Value)
	}
	filled = min(max(filled, 0), upper)
	return strings.Repeat("★", filled) + strings.Repeat("☆", upper-filled)
}

func maskIfPassword(el *widgets.TextInput) string {
	if el.Type == widgets.InputPassword && el.Value != "" {
		return "********"
	}
	return el.Value
}

func requiredValidator(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New("a value is required")
		}
		return nil
	}
}
