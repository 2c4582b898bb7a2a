// Package server exposes the intake page over HTTP. Every POST builds a
// fresh form from the definition, replays the submitted values into it and
// runs the submission pipeline with the HTML page state as presenter, so a
// failed submission re-renders with the user's values, validity markers and
// banner, and a successful one renders a cleared form.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/relay"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
	"github.com/goliatone/go-intake/pkg/report"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Paths served by the router.
const (
	PathIndex    = "/"
	PathIntake   = "/intake"
	PathWhatsApp = "/contato/whatsapp"
	PathHealth   = "/healthz"
	PathMetrics  = "/metrics"
	PathAssets   = "/assets"
)

// Config holds the collaborators of the HTTP surface.
type Config struct {
	Definition   model.FormModel
	Sender       relay.Sender
	Orchestrator orchestrator.Config
	// ContactURL is the WhatsApp link behind PathWhatsApp and the page CTA.
	ContactURL string
	Logger     *zap.Logger
	Recorder   orchestrator.Recorder
	// Metrics is mounted on PathMetrics when set.
	Metrics  http.Handler
	Renderer *vanilla.Renderer
	Reports  *report.Builder
	// Options are appended to every orchestrator the server builds.
	Options []orchestrator.Option
}

// Server renders and accepts the intake form.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	renderer *vanilla.Renderer
	reports  *report.Builder
}

// New validates the definition and prepares the renderer.
func New(cfg Config) (*Server, error) {
	if cfg.Sender == nil {
		return nil, errors.New("server: relay sender is required")
	}
	if _, err := form.New(cfg.Definition); err != nil {
		return nil, fmt.Errorf("server: form definition: %w", err)
	}
	s := &Server{cfg: cfg, logger: cfg.Logger, renderer: cfg.Renderer, reports: cfg.Reports}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	if s.reports == nil {
		builder, err := report.NewBuilder()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.reports = builder
	}
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get(PathIndex, s.handleIndex)
	r.Post(PathIntake, s.handleSubmit)
	r.Get(PathWhatsApp, s.handleWhatsApp)
	r.Get(PathHealth, handleHealth)
	if s.cfg.Metrics != nil {
		r.Handle(PathMetrics, s.cfg.Metrics)
	}
	r.Handle(PathAssets+"/*", http.StripPrefix(PathAssets+"/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	return r
}

type pipeline struct {
	form *form.Form
	page *vanilla.PageState
	orch *orchestrator.Orchestrator
}

func (s *Server) newPipeline(logger *zap.Logger) (*pipeline, error) {
	f, err := form.New(s.cfg.Definition)
	if err != nil {
		return nil, err
	}
	page := vanilla.NewPageState(f)
	opts := []orchestrator.Option{
		orchestrator.WithConfig(s.cfg.Orchestrator),
		orchestrator.WithLogger(logger),
		orchestrator.WithReportBuilder(s.reports),
	}
	if s.cfg.Recorder != nil {
		opts = append(opts, orchestrator.WithRecorder(s.cfg.Recorder))
	}
	opts = append(opts, s.cfg.Options...)
	orch, err := orchestrator.New(f, s.cfg.Sender, page, opts...)
	if err != nil {
		return nil, err
	}
	return &pipeline{form: f, page: page, orch: orch}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := s.newPipeline(s.requestLogger(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	defer p.orch.Close()
	s.renderPage(w, r, p, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	p, err := s.newPipeline(logger)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	defer p.orch.Close()

	if err := apply(p.form, r); err != nil {
		s.internalError(w, r, err)
		return
	}

	res := p.orch.Submit(r.Context())
	status := statusFor(res)
	if wantsJSON(r) {
		s.writeJSON(w, status, resultBody(p, res))
		return
	}
	s.renderPage(w, r, p, status)
}

func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ContactURL == "" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.cfg.ContactURL, http.StatusFound)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, p *pipeline, status int) {
	out, err := s.renderer.Render(r.Context(), p.form.Definition(), p.page, vanilla.RenderOptions{
		Action:     PathIntake,
		Stylesheet: PathAssets + "/" + vanilla.StylesheetName,
		ContactURL: s.cfg.ContactURL,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.requestLogger(r).Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

// apply replays the posted values into the form. Checkboxes are checked when
// their name is present with any non-empty value.
func apply(f *form.Form, r *http.Request) error {
	for _, field := range f.Definition().Fields {
		value := r.PostForm.Get(field.Name)
		if field.Type.IsCheckbox() {
			if err := f.Check(field.Name, value != ""); err != nil {
				return err
			}
			continue
		}
		if err := f.Input(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}

// statusFor maps a result to the response status. Each POST runs its own
// pipeline, so requests never observe each other as in flight.
func statusFor(res orchestrator.Result) int {
	switch {
	case res.OK():
		return http.StatusOK
	case res.Reason == orchestrator.ReasonValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// ResultBody is the JSON answer to a submission.
type ResultBody struct {
	OK           bool               `json:"ok"`
	Outcome      string             `json:"outcome"`
	Reason       string             `json:"reason,omitempty"`
	SubmissionID string             `json:"submission_id,omitempty"`
	Banner       feedback.Banner    `json:"banner"`
	Issues       []validation.Issue `json:"issues,omitempty"`
}

func resultBody(p *pipeline, res orchestrator.Result) ResultBody {
	body := ResultBody{
		OK:           res.OK(),
		Outcome:      string(res.Outcome),
		Reason:       string(res.Reason),
		SubmissionID: res.SubmissionID,
		Banner:       p.page.Banner(),
	}
	if res.Reason == orchestrator.ReasonValidation {
		body.Issues = validation.Issues(p.form, res.Err)
	}
	return body
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
