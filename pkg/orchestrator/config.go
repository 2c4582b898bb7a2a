package orchestrator

import (
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/relay"
)

// EmailPlaceholder is replaced by the fallback address in ErrorMessage.
const EmailPlaceholder = "{email}"

// Config carries the user-facing labels, messages and timings.
type Config struct {
	SubmitLabel       string
	LoadingLabel      string
	SuccessMessage    string
	ValidationMessage string
	ErrorMessage      string
	FallbackEmail     string
	WhatsAppURL       string
	SuccessTimeout    time.Duration
	Relay             relay.Config
}

// DefaultConfig returns the Portuguese defaults used by the clinic page.
func DefaultConfig() Config {
	return Config{
		SubmitLabel:       "Enviar solicitação",
		LoadingLabel:      "Enviando...",
		SuccessMessage:    "Solicitação enviada com sucesso! Entraremos em contato em breve.",
		ValidationMessage: "Por favor, preencha todos os campos obrigatórios.",
		ErrorMessage:      "Não foi possível enviar sua solicitação. Tente novamente ou escreva para " + EmailPlaceholder + ".",
		SuccessTimeout:    5 * time.Second,
		Relay:             relay.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.SubmitLabel) == "" {
		c.SubmitLabel = def.SubmitLabel
	}
	if strings.TrimSpace(c.LoadingLabel) == "" {
		c.LoadingLabel = def.LoadingLabel
	}
	if strings.TrimSpace(c.SuccessMessage) == "" {
		c.SuccessMessage = def.SuccessMessage
	}
	if strings.TrimSpace(c.ValidationMessage) == "" {
		c.ValidationMessage = def.ValidationMessage
	}
	if strings.TrimSpace(c.ErrorMessage) == "" {
		c.ErrorMessage = def.ErrorMessage
	}
	if c.SuccessTimeout == 0 {
		c.SuccessTimeout = def.SuccessTimeout
	}
	if c.Relay == (relay.Config{}) {
		c.Relay = def.Relay
	}
	return c
}

func (c Config) errorMessage() string {
	return strings.ReplaceAll(c.ErrorMessage, EmailPlaceholder, strings.TrimSpace(c.FallbackEmail))
}
