// Package contact builds the direct-contact shortcuts offered next to the
// intake form.
package contact

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// WhatsAppBase is the click-to-chat endpoint.
const WhatsAppBase = "https://wa.me/"

// DefaultMessage pre-fills the chat when no message is configured.
const DefaultMessage = "Olá! Gostaria de agendar um atendimento psicológico."

// ErrNoNumber is returned when the number has no digits.
var ErrNoNumber = errors.New("contact: whatsapp number has no digits")

// WhatsAppURL returns https://wa.me/<digits>?text=<message>. Formatting
// characters in number are dropped; an empty message falls back to
// DefaultMessage.
func WhatsAppURL(number, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return "", ErrNoNumber
	}
	if strings.TrimSpace(message) == "" {
		message = DefaultMessage
	}
	return WhatsAppBase + digits + "?text=" + escapeComponent(message), nil
}

// escapeComponent query-escapes s with spaces as %20; a literal "+" is
// already escaped as %2B by QueryEscape.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
