// Package relay delivers intake submissions. The primary transport posts a
// JSON payload to a form-to-mail relay endpoint; SendGrid and a log-only
// transport are available for deployments without one.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-intake/pkg/form"
)

// Reserved payload keys. Field names may not start with "_" so they never
// collide with user values.
const (
	KeySubject       = "_subject"
	KeyTemplate      = "_template"
	KeyCaptcha       = "_captcha"
	KeyFormattedData = "_formatted_data"
)

// DefaultRelayBase is the form-to-mail service used when only a destination
// address is configured.
const DefaultRelayBase = "https://formsubmit.co/ajax/"

// ErrUnexpectedStatus is wrapped by SubmissionError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("relay: unexpected status")

// Config describes where and how submissions are sent.
type Config struct {
	Endpoint         string
	DestinationEmail string
	SubjectPrefix    string
	Template         string
	Captcha          string
	NameField        string
}

// DefaultConfig returns the relay defaults.
func DefaultConfig() Config {
	return Config{
		SubjectPrefix: "Nova solicitação de atendimento",
		Template:      "box",
		Captcha:       "false",
		NameField:     "nome",
	}
}

// URL resolves the endpoint, deriving it from the destination address when
// no explicit endpoint is set.
func (c Config) URL() (string, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		email := strings.TrimSpace(c.DestinationEmail)
		if email == "" {
			return "", errors.New("relay: endpoint or destination email is required")
		}
		endpoint = DefaultRelayBase + url.PathEscape(email)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("relay: invalid endpoint %q", endpoint)
	}
	return parsed.String(), nil
}

// Subject interpolates the submitter's name into the subject line.
func (c Config) Subject(rec form.Record) string {
	prefix := strings.TrimSpace(c.SubjectPrefix)
	name := strings.TrimSpace(rec.Value(c.NameField))
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	default:
		return prefix + " - " + name
	}
}

// Payload is the flat JSON body sent to the relay.
type Payload map[string]string

// NewPayload builds the relay body: reserved keys, every raw field value and
// the formatted report.
func NewPayload(cfg Config, rec form.Record, report string) Payload {
	payload := make(Payload, rec.Len()+4)
	for _, name := range rec.Names() {
		payload[name] = rec.Value(name)
	}
	payload[KeySubject] = cfg.Subject(rec)
	payload[KeyTemplate] = cfg.Template
	payload[KeyCaptcha] = cfg.Captcha
	payload[KeyFormattedData] = report
	return payload
}

// Submission is a single delivery request.
type Submission struct {
	ID      string
	Subject string
	Report  string
	Record  form.Record
	Payload Payload
}

// NewSubmission assembles a submission for rec.
func NewSubmission(id string, cfg Config, rec form.Record, report string) Submission {
	return Submission{
		ID:      id,
		Subject: cfg.Subject(rec),
		Report:  report,
		Record:  rec,
		Payload: NewPayload(cfg, rec, report),
	}
}

// Sender delivers a submission. Implementations return a *SubmissionError
// when delivery fails.
type Sender interface {
	Send(ctx context.Context, sub Submission) error
}

// SenderFunc adapts a function into a Sender.
type SenderFunc func(ctx context.Context, sub Submission) error

// Send calls the underlying function.
func (fn SenderFunc) Send(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// SubmissionError reports a failed delivery. StatusCode is zero for
// transport errors.
type SubmissionError struct {
	Transport  string
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e == nil {
		return "relay: submission failed"
	}
	transport := e.Transport
	if transport == "" {
		transport = "relay"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("relay: %s submission failed with status %d", transport, e.StatusCode)
	}
	return fmt.Sprintf("relay: %s submission failed: %v", transport, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) int {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr.StatusCode
	}
	return 0
}
