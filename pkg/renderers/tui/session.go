// Package tui collects an intake form on the terminal. A Session walks the
// form field by field through a PromptDriver, submits it through an
// orchestrator and prints the resulting banners. It implements
// orchestrator.Presenter and form.Observer so the orchestrator drives it the
// same way it drives the HTML page.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/validation"
)

const (
	defaultMaxAttempts = 5
	defaultRetryPrompt = "Não foi possível enviar. Tentar novamente?"
	skipOption         = "(não informar)"
)

// Session is a terminal presenter for a single form.
type Session struct {
	driver      PromptDriver
	theme       Theme
	maxAttempts int
	retryPrompt string

	mu      sync.Mutex
	invalid map[string]bool
	focused string
	banner  feedback.Banner
}

var (
	_ orchestrator.Presenter = (*Session)(nil)
	_ form.Observer          = (*Session)(nil)
)

// NewSession returns a session using the survey driver unless another one is
// supplied.
func NewSession(options ...Option) *Session {
	s := &Session{
		theme:       DefaultTheme(),
		maxAttempts: defaultMaxAttempts,
		retryPrompt: defaultRetryPrompt,
		invalid:     make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts every field, submits and loops until the relay accepts the
// submission, the user declines a retry or the attempts run out. After a
// validation failure only the invalid fields are prompted again.
func (s *Session) Run(ctx context.Context, orch *orchestrator.Orchestrator) (orchestrator.Result, error) {
	if orch == nil {
		return orchestrator.Result{}, errors.New("tui: orchestrator is required")
	}
	f := orch.Form()
	def := f.Definition()
	if def.Title != "" {
		s.print(s.theme.InfoPrefix, def.Title)
	}

	pending := make([]string, 0, len(def.Fields))
	for _, field := range def.Fields {
		pending = append(pending, field.Name)
	}

	var res orchestrator.Result
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err := s.collect(ctx, f, pending); err != nil {
			return res, err
		}
		res = orch.Submit(ctx)
		switch {
		case res.OK():
			return res, nil
		case res.Reason == orchestrator.ReasonValidation:
			pending = s.focusFirst(res.Invalid)
		case res.Reason == orchestrator.ReasonSubmission:
			if err := ctx.Err(); err != nil {
				return res, err
			}
			retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.retryPrompt, Default: true})
			if err != nil {
				return res, err
			}
			if !retry {
				return res, nil
			}
			pending = nil
		default:
			return res, res.Err
		}
	}
	return res, ErrAttemptsExhausted
}

// Banner returns the last banner shown.
func (s *Session) Banner() feedback.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// FocusField remembers the field the orchestrator wants corrected first.
func (s *Session) FocusField(name string) {
	s.mu.Lock()
	s.focused = name
	s.mu.Unlock()
}

// SetSubmitState prints the loading label while a submission is in flight.
func (s *Session) SetSubmitState(enabled bool, label string) {
	if !enabled && label != "" {
		s.print(s.theme.InfoPrefix, label)
	}
}

// ShowBanner prints a banner with its contact link.
func (s *Session) ShowBanner(b feedback.Banner) {
	s.mu.Lock()
	s.banner = b
	s.mu.Unlock()

	prefix := s.theme.InfoPrefix
	switch b.Kind {
	case feedback.KindSuccess:
		prefix = s.theme.SuccessPrefix
	case feedback.KindWarning:
		prefix = s.theme.WarningPrefix
	case feedback.KindError:
		prefix = s.theme.ErrorPrefix
	}
	s.print(prefix, b.Message)
	if b.Link != "" {
		s.print(s.theme.InfoPrefix, b.Link)
	}
}

// HideBanner is a no-op: printed lines stay in the scrollback.
func (s *Session) HideBanner() {
	s.mu.Lock()
	s.banner.Visible = false
	s.mu.Unlock()
}

// ScrollToBanner is a no-op on the terminal.
func (s *Session) ScrollToBanner() {}

// FieldChanged tracks validity markers.
func (s *Session) FieldChanged(field form.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if field.Validity == form.Invalid {
		s.invalid[field.Name()] = true
		return
	}
	delete(s.invalid, field.Name())
}

func (s *Session) focusFirst(invalid []string) []string {
	s.mu.Lock()
	focused := s.focused
	s.mu.Unlock()
	out := make([]string, 0, len(invalid))
	for _, name := range invalid {
		if name == focused {
			out = append([]string{name}, out...)
			continue
		}
		out = append(out, name)
	}
	return out
}

func (s *Session) collect(ctx context.Context, f *form.Form, names []string) error {
	def := f.Definition()
	section := ""
	for _, name := range names {
		field, ok := f.Field(name)
		if !ok {
			return fmt.Errorf("tui: %w: %q", form.ErrUnknownField, name)
		}
		// Conditional fields are only asked once their rule holds.
		if field.Def.RequiredIf != "" && !field.Required {
			continue
		}
		if field.Def.Section != section {
			section = field.Def.Section
			if sec, ok := def.Section(section); ok && sec.Title != "" {
				s.print(s.theme.InfoPrefix, strings.ToUpper(sec.Title))
			}
		}
		if s.isInvalid(name) {
			s.print(s.theme.WarningPrefix, field.Def.Label+": "+validation.DefaultMessage)
		}
		if err := s.prompt(ctx, f, field); err != nil {
			return err
		}
		if err := f.Blur(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) prompt(ctx context.Context, f *form.Form, field form.Field) error {
	def := field.Def
	message := def.Label
	if field.Required {
		message += " *"
	}
	help := def.Description
	if help == "" {
		help = def.Placeholder
	}

	switch def.Type {
	case model.FieldTypeCheckbox:
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: field.Checked, Help: help})
		if err != nil {
			return err
		}
		return f.Check(def.Name, checked)
	case model.FieldTypeSelect:
		value, err := s.promptSelect(ctx, field, message, help)
		if err != nil {
			return err
		}
		return f.Input(def.Name, value)
	case model.FieldTypeTextArea:
		value, err := s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Value, Help: help})
		if err != nil {
			return err
		}
		return f.Input(def.Name, value)
	default:
		cfg := InputConfig{Message: message, Default: field.Value, Help: help}
		if field.Required {
			cfg.Validator = nonBlank
		}
		value, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		return f.Input(def.Name, strings.TrimSpace(value))
	}
}

func (s *Session) promptSelect(ctx context.Context, field form.Field, message, help string) (string, error) {
	def := field.Def
	var (
		labels []string
		values []string
	)
	if !field.Required {
		labels = append(labels, skipOption)
		values = append(values, "")
	}
	for _, opt := range def.Options {
		labels = append(labels, def.OptionLabel(opt.Value))
		values = append(values, opt.Value)
	}
	current := 0
	for i, value := range values {
		if value == field.Value {
			current = i
			break
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: current,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return "", nil
	}
	return values[idx], nil
}

func (s *Session) isInvalid(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalid[name]
}

func (s *Session) print(prefix, msg string) {
	if prefix != "" {
		msg = prefix + " " + msg
	}
	// Presenter callbacks carry no context; printing never blocks on input.
	_ = s.driver.Info(context.Background(), msg)
}

func nonBlank(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(validation.DefaultMessage)
	}
	return nil
}
