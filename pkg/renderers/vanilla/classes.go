package vanilla

import "github.com/goliatone/go-intake/pkg/feedback"

// ChromeClass is a typed identifier for the semantic CSS classes of the page.
type ChromeClass string

const (
	ClassForm         ChromeClass = "intake-form"
	ClassHeader       ChromeClass = "intake-header"
	ClassSection      ChromeClass = "intake-section"
	ClassField        ChromeClass = "intake-field"
	ClassFieldInvalid ChromeClass = "intake-field--invalid"
	ClassFieldValid   ChromeClass = "intake-field--valid"
	ClassActions      ChromeClass = "intake-actions"
	ClassBanner       ChromeClass = "intake-banner"
)

func classes() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"section": string(ClassSection),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"banner":  string(ClassBanner),
	}
}

func bannerClass(kind feedback.Kind) string {
	return string(ClassBanner) + " " + string(ClassBanner) + "--" + string(kind)
}
