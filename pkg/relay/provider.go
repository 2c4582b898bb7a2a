package relay

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Provider names accepted by NewSender.
const (
	ProviderHTTP     = "http"
	ProviderSendGrid = "sendgrid"
	ProviderLog      = "log"
)

// NewSender builds the transport named by provider.
func NewSender(provider string, cfg Config, sg SendGridConfig, logger *zap.Logger) (Sender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderHTTP:
		return NewHTTPRelay(cfg, WithHTTPLogger(logger))
	case ProviderSendGrid:
		return NewSendGridRelay(cfg, sg, logger)
	case ProviderLog:
		return NewLogRelay(logger), nil
	default:
		return nil, fmt.Errorf("relay: unknown provider %q", provider)
	}
}
