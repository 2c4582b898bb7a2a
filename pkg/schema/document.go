package schema

import (
	"bytes"
	"errors"
	"path"
	"strings"
)

// Format identifies the dialect of a form definition document.
type Format string

const (
	// FormatYAML is the native intake form definition.
	FormatYAML Format = "yaml"
	// FormatOpenAPI is an OpenAPI 3 document whose operation request body
	// describes the form.
	FormatOpenAPI Format = "openapi"
)

// Document wraps the raw definition payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format sniffs the dialect: documents declaring a top-level "openapi" key
// are OpenAPI, everything else is the native YAML format.
func (d Document) Format() Format {
	for _, line := range strings.Split(string(d.raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, `"openapi"`) || (strings.HasPrefix(line, "openapi:")) {
			return FormatOpenAPI
		}
	}
	if ext := strings.ToLower(path.Ext(d.Location())); ext == ".json" && bytes.Contains(d.raw, []byte(`"paths"`)) {
		return FormatOpenAPI
	}
	return FormatYAML
}
