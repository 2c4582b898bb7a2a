package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// HTTPOption configures an HTTPRelay.
type HTTPOption func(*HTTPRelay)

// WithHTTPClient overrides the HTTP client. The default client has no
// timeout; cancellation comes from the caller's context.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(r *HTTPRelay) {
		if client != nil {
			r.client = client
		}
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(r *HTTPRelay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// HTTPRelay posts the submission payload as JSON to a relay endpoint.
type HTTPRelay struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPRelay validates the endpoint and returns a relay.
func NewHTTPRelay(cfg Config, opts ...HTTPOption) (*HTTPRelay, error) {
	endpoint, err := cfg.URL()
	if err != nil {
		return nil, err
	}
	r := &HTTPRelay{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Endpoint returns the resolved relay URL.
func (r *HTTPRelay) Endpoint() string { return r.endpoint }

// Send issues exactly one POST. Any 2xx status is success; the response body
// is drained and otherwise ignored.
func (r *HTTPRelay) Send(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub.Payload)
	if err != nil {
		return &SubmissionError{Transport: "http", Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmissionError{Transport: "http", Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &SubmissionError{Transport: "http", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmissionError{Transport: "http", StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	r.logger.Debug("relay accepted submission",
		zap.String("submission_id", sub.ID),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
