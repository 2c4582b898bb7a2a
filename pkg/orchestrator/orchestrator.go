package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/relay"
	"github.com/goliatone/go-intake/pkg/report"
	"github.com/goliatone/go-intake/pkg/requirement"
	"github.com/goliatone/go-intake/pkg/rules"
	"github.com/goliatone/go-intake/pkg/validation"
)

// ErrInFlight is returned in the Result of a Submit issued while another
// submission is still waiting on the relay.
var ErrInFlight = errors.New("orchestrator: submission already in flight")

// Presenter is the presentation surface driven by the pipeline. Field
// validity markers reach the presenter through form.Observer when it
// implements that interface too.
type Presenter interface {
	FocusField(name string)
	SetSubmitState(enabled bool, label string)
	ShowBanner(b feedback.Banner)
	HideBanner()
	ScrollToBanner()
}

// Recorder receives pipeline measurements. Outcome labels are "success",
// "validation", "submission" and "in-flight".
type Recorder interface {
	ObserveSubmission(outcome string)
	ObserveRelay(outcome string, elapsed time.Duration)
}

// Outcome is the top-level result of Submit.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Reason explains a failure.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonValidation Reason = "validation"
	ReasonSubmission Reason = "submission"
	ReasonInFlight   Reason = "in-flight"
)

// Result describes one Submit call.
type Result struct {
	Outcome      Outcome
	Reason       Reason
	SubmissionID string
	// Invalid lists the fields that failed validation, in form order.
	Invalid []string
	Err     error
}

// OK reports whether the submission was accepted by the relay.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func (r Result) label() string {
	if r.OK() {
		return string(OutcomeSuccess)
	}
	return string(r.Reason)
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithConfig replaces the default labels, messages and relay settings.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger used for submission failures.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// WithClock sets the clock scheduling the success banner dismissal.
func WithClock(clock feedback.Clock) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithReportBuilder replaces the default report builder.
func WithReportBuilder(builder *report.Builder) Option {
	return func(o *Orchestrator) {
		if builder != nil {
			o.reports = builder
		}
	}
}

// WithEvaluator sets the rule evaluator used for conditional requirements.
func WithEvaluator(evaluator rules.Evaluator) Option {
	return func(o *Orchestrator) {
		if evaluator != nil {
			o.evaluator = evaluator
		}
	}
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Orchestrator drives one form. It attaches validation and conditional
// requirements to the form on construction and allows a single submission
// in flight at a time.
type Orchestrator struct {
	form      *form.Form
	sender    relay.Sender
	presenter Presenter
	banners   *feedback.Controller
	reports   *report.Builder
	evaluator rules.Evaluator
	cfg       Config
	logger    *zap.Logger
	recorder  Recorder
	clock     feedback.Clock
	newID     func() string
	now       func() time.Time

	mu       sync.Mutex
	inFlight bool
	detach   []func()
}

// New wires an orchestrator for f.
func New(f *form.Form, sender relay.Sender, presenter Presenter, options ...Option) (*Orchestrator, error) {
	if f == nil {
		return nil, errors.New("orchestrator: form is required")
	}
	if sender == nil {
		return nil, errors.New("orchestrator: relay sender is required")
	}
	if presenter == nil {
		return nil, errors.New("orchestrator: presenter is required")
	}

	o := &Orchestrator{
		form:      f,
		sender:    sender,
		presenter: presenter,
		cfg:       DefaultConfig(),
		logger:    zap.NewNop(),
		recorder:  nopRecorder{},
		clock:     feedback.SystemClock{},
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.cfg = o.cfg.withDefaults()

	if o.reports == nil {
		builder, err := report.NewBuilder()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		o.reports = builder
	}

	o.banners = feedback.NewController(
		feedback.WithClock(o.clock),
		feedback.WithListener(func(b feedback.Banner) {
			if b.Visible {
				o.presenter.ShowBanner(b)
				return
			}
			o.presenter.HideBanner()
		}),
	)

	if observer, ok := presenter.(form.Observer); ok {
		o.detach = append(o.detach, f.Observe(observer))
	}
	o.detach = append(o.detach, validation.Attach(f))
	unbind, err := requirement.Bind(f, o.evaluator, requirement.WithLogger(o.logger))
	if err != nil {
		o.Close()
		return nil, fmt.Errorf("orchestrator: bind requirements: %w", err)
	}
	o.detach = append(o.detach, unbind)

	presenter.SetSubmitState(true, o.cfg.SubmitLabel)
	return o, nil
}

// Form returns the form driven by the orchestrator.
func (o *Orchestrator) Form() *form.Form { return o.form }

// Banner returns the current banner state.
func (o *Orchestrator) Banner() feedback.Banner { return o.banners.Current() }

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// Close detaches the listeners installed by New.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	detach := o.detach
	o.detach = nil
	o.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

// Submit runs the pipeline once. A call made while another submission is in
// flight returns a ReasonInFlight failure without touching the form, the
// presenter or the relay.
func (o *Orchestrator) Submit(ctx context.Context) Result {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		o.recorder.ObserveSubmission(string(ReasonInFlight))
		return Result{Outcome: OutcomeFailure, Reason: ReasonInFlight, Err: ErrInFlight}
	}
	o.inFlight = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	result := o.submit(ctx)
	o.recorder.ObserveSubmission(result.label())
	return result
}

func (o *Orchestrator) submit(ctx context.Context) Result {
	if invalid := validation.ValidateAll(o.form); len(invalid) > 0 {
		o.presenter.FocusField(invalid[0])
		o.banners.Warning(o.cfg.ValidationMessage)
		return Result{
			Outcome: OutcomeFailure,
			Reason:  ReasonValidation,
			Invalid: invalid,
			Err:     &validation.Error{Fields: invalid},
		}
	}

	record := o.form.Snapshot()
	id := o.newID()
	logger := o.logger.With(zap.String("submission_id", id))

	formatted, err := o.reports.Build(o.form.Definition(), record)
	if err != nil {
		return o.fail(logger, id, fmt.Errorf("orchestrator: format report: %w", err))
	}
	sub := relay.NewSubmission(id, o.cfg.Relay, record, formatted)

	o.presenter.SetSubmitState(false, o.cfg.LoadingLabel)
	defer o.presenter.SetSubmitState(true, o.cfg.SubmitLabel)

	started := o.now()
	err = o.sender.Send(ctx, sub)
	elapsed := o.now().Sub(started)
	if err != nil {
		o.recorder.ObserveRelay("error", elapsed)
		return o.fail(logger, id, err)
	}
	o.recorder.ObserveRelay("success", elapsed)

	o.banners.Success(o.cfg.SuccessMessage, o.cfg.SuccessTimeout)
	o.form.Reset()
	o.presenter.ScrollToBanner()
	logger.Info("submission delivered", zap.Duration("elapsed", elapsed))
	return Result{Outcome: OutcomeSuccess, SubmissionID: id}
}

func (o *Orchestrator) fail(logger *zap.Logger, id string, err error) Result {
	logger.Error("submission failed",
		zap.Int("status", relay.StatusCode(err)),
		zap.Error(err),
	)
	o.banners.Error(o.cfg.errorMessage(), o.cfg.WhatsAppURL)
	return Result{
		Outcome:      OutcomeFailure,
		Reason:       ReasonSubmission,
		SubmissionID: id,
		Err:          err,
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(string)           {}
func (nopRecorder) ObserveRelay(string, time.Duration) {}
