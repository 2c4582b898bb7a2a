package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrAttemptsExhausted is returned by Run when the form is still not
	// accepted after the configured number of submit attempts.
	ErrAttemptsExhausted = errors.New("tui: submit attempts exhausted")
)
