package tui

// Theme captures the message prefixes the session prints. Keep minimal to
// avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	WarningPrefix string
	ErrorPrefix   string
}

// DefaultTheme uses plain ASCII markers.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:    "»",
		SuccessPrefix: "[ok]",
		WarningPrefix: "[!]",
		ErrorPrefix:   "[x]",
	}
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithMaxAttempts bounds how many times Run submits before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRetryPrompt sets the question asked after a relay failure.
func WithRetryPrompt(msg string) Option {
	return func(s *Session) {
		if msg != "" {
			s.retryPrompt = msg
		}
	}
}
