package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intake/internal/observability/metrics"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/relay"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

const whatsapp = "https://wa.me/5562999999999?text=Ol%C3%A1"

func newTestServer(t *testing.T, sender *testsupport.FakeRelay) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	cfg := orchestrator.DefaultConfig()
	cfg.FallbackEmail = "contato@clinica.example"
	cfg.WhatsAppURL = whatsapp

	srv, err := New(Config{
		Definition:   testsupport.IntakeModel(),
		Sender:       sender,
		Orchestrator: cfg,
		ContactURL:   whatsapp,
		Recorder:     metrics.NewIntakeMetrics(reg),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Options:      []orchestrator.Option{orchestrator.WithClock(testsupport.NewFakeClock())},
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func validValues() url.Values {
	return url.Values{
		"nome":      {"Ana Souza"},
		"email":     {"ana@example.com"},
		"telefone":  {"(62) 99999-0000"},
		"medicacao": {"nao"},
		"periodo":   {"Manhã"},
		"termos":    {"on"},
	}
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestIndexRendersForm(t *testing.T) {
	ts := newTestServer(t, testsupport.NewFakeRelay())

	resp, err := http.Get(ts.URL + PathIndex)
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Contains(t, body, `action="/intake"`)
	require.Contains(t, body, `name="medicacao_detalhes"`)
	require.Contains(t, body, `href="`+whatsapp+`"`)
}

func TestSubmitSuccessClearsForm(t *testing.T) {
	sender := testsupport.NewFakeRelay()
	ts := newTestServer(t, sender)

	resp, err := http.PostForm(ts.URL+PathIntake, validValues())
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "intake-banner--success")
	require.NotContains(t, body, "Ana Souza")
	require.Equal(t, 1, sender.Calls())

	payload := sender.Submissions()[0].Payload
	require.Equal(t, "Ana Souza", payload["nome"])
	require.Equal(t, "true", payload["termos"])
}

func TestSubmitValidationFailureKeepsValues(t *testing.T) {
	sender := testsupport.NewFakeRelay()
	ts := newTestServer(t, sender)

	values := validValues()
	values.Set("medicacao", "sim")
	resp, err := http.PostForm(ts.URL+PathIntake, values)
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, `value="Ana Souza"`)
	require.Contains(t, body, `id="intake-medicacao_detalhes-error"`)
	require.Contains(t, body, "intake-banner--warning")
	require.Zero(t, sender.Calls())
}

func TestSubmitJSONReportsIssues(t *testing.T) {
	ts := newTestServer(t, testsupport.NewFakeRelay())

	values := validValues()
	values.Del("termos")
	req, err := http.NewRequest(http.MethodPost, ts.URL+PathIntake, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body ResultBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.OK)
	require.Equal(t, "validation", body.Reason)
	require.Len(t, body.Issues, 1)
	require.Equal(t, "termos", body.Issues[0].Field)
	require.True(t, body.Banner.Visible)
}

func TestSubmitRelayFailure(t *testing.T) {
	sender := testsupport.NewFakeRelay()
	sender.Err = &relay.SubmissionError{StatusCode: 500, Err: relay.ErrUnexpectedStatus}
	ts := newTestServer(t, sender)

	resp, err := http.PostForm(ts.URL+PathIntake, validValues())
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, body, `value="Ana Souza"`)
	require.Contains(t, body, "intake-banner--error")
	require.Contains(t, body, "contato@clinica.example")
}

func TestWhatsAppRedirect(t *testing.T) {
	ts := newTestServer(t, testsupport.NewFakeRelay())
	client := &http.Client{CheckRedirect: noRedirect}

	resp, err := client.Get(ts.URL + PathWhatsApp)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, whatsapp, resp.Header.Get("Location"))
}

func TestHealthAssetsAndMetrics(t *testing.T) {
	ts := newTestServer(t, testsupport.NewFakeRelay())

	resp, err := http.Get(ts.URL + PathHealth)
	require.NoError(t, err)
	require.Equal(t, "ok", readBody(t, resp))

	resp, err = http.Get(ts.URL + PathAssets + "/intake.css")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), ".intake-form")

	resp, err = http.PostForm(ts.URL+PathIntake, url.Values{})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + PathMetrics)
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), `intake_submissions_total{outcome="validation"} 1`)
}

func TestNewRequiresSender(t *testing.T) {
	_, err := New(Config{Definition: testsupport.IntakeModel()})
	require.Error(t, err)

	_, err = New(Config{Sender: testsupport.NewFakeRelay()})
	require.Error(t, err, "empty definition must be rejected")
}

func TestConcurrentPostsAreIndependentSubmissions(t *testing.T) {
	sender := testsupport.NewBlockingFakeRelay()
	ts := newTestServer(t, sender)

	statuses := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := http.PostForm(ts.URL+PathIntake, validValues())
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case <-sender.Started():
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d submissions reached the relay", i)
		}
	}
	sender.Release()

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, <-statuses)
	}
	require.Equal(t, 2, sender.Calls())
}
