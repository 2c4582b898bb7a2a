// Package report formats an intake record into the human-readable summary
// sent alongside the raw values. Entries are grouped by the sections of the
// form definition; empty values are omitted and sections left without
// entries are dropped. Submitted values are reported verbatim; only text
// taken from the definition is stripped of markup.
package report

import (
	"embed"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render/template"
	"github.com/goliatone/go-intake/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// DefaultTemplate is the embedded report template name.
const DefaultTemplate = "templates/report"

// OtherSectionTitle groups fields that do not declare a section.
const OtherSectionTitle = "Outras informações"

// EmptyNotice replaces the sections when nothing was filled in.
const EmptyNotice = "Nenhuma informação adicional foi preenchida."

var blankLines = regexp.MustCompile(`\n{3,}`)

// Entry is a single labelled value.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups entries under a title.
type Section struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithRenderer replaces the embedded pongo2 engine.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(b *Builder) {
		if renderer != nil {
			b.renderer = renderer
		}
	}
}

// WithTemplate selects the template rendered by Build.
func WithTemplate(name string) Option {
	return func(b *Builder) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			b.template = trimmed
		}
	}
}

// WithCheckboxLabels sets the words used for checked and unchecked boxes.
// An empty unchecked label omits unchecked boxes from the report.
func WithCheckboxLabels(checked, unchecked string) Option {
	return func(b *Builder) {
		b.checked = checked
		b.unchecked = unchecked
	}
}

// WithNow stamps reports with the time returned by now.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// Builder renders reports.
type Builder struct {
	renderer  template.TemplateRenderer
	template  string
	policy    *bluemonday.Policy
	checked   string
	unchecked string
	now       func() time.Time
}

// NewBuilder returns a Builder backed by the embedded template unless
// WithRenderer is supplied.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		template: DefaultTemplate,
		policy:   bluemonday.StrictPolicy(),
		checked:  "Sim",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(templatesFS), gotemplate.WithName("report"))
		if err != nil {
			return nil, fmt.Errorf("report: init engine: %w", err)
		}
		b.renderer = engine
	}
	return b, nil
}

// Sections groups the record's non-empty values by the definition's
// sections, in definition order. Fields without a section are collected in a
// trailing section.
func (b *Builder) Sections(def model.FormModel, rec form.Record) []Section {
	bySection := make(map[string][]Entry)
	for _, field := range def.Fields {
		raw, ok := rec.Get(field.Name)
		if !ok {
			continue
		}
		value := b.display(field, raw)
		if value == "" {
			continue
		}
		bySection[field.Section] = append(bySection[field.Section], Entry{
			Label: b.definitionText(field.Label),
			Value: value,
		})
	}

	var out []Section
	for _, section := range def.Sections {
		entries := bySection[section.ID]
		if len(entries) == 0 {
			continue
		}
		out = append(out, Section{ID: section.ID, Title: b.definitionText(section.Title), Entries: entries})
	}
	if entries := bySection[""]; len(entries) > 0 {
		out = append(out, Section{Title: OtherSectionTitle, Entries: entries})
	}
	return out
}

// Build renders the report for rec. A record with no reportable value
// renders the title followed by EmptyNotice.
func (b *Builder) Build(def model.FormModel, rec form.Record) (string, error) {
	sections := b.Sections(def, rec)
	data := map[string]any{
		"title":        b.definitionText(def.Title),
		"sections":     sectionsContext(sections),
		"empty_notice": EmptyNotice,
	}
	if b.now != nil {
		data["submitted_at"] = b.now().Format("02/01/2006 15:04")
	}

	out, err := b.renderer.RenderTemplate(b.template, data)
	if err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	out = blankLines.ReplaceAllString(strings.ReplaceAll(out, "\r\n", "\n"), "\n\n")
	return strings.TrimSpace(out) + "\n", nil
}

func (b *Builder) display(field model.Field, raw string) string {
	if field.Type.IsCheckbox() {
		if raw == "true" {
			return b.checked
		}
		return b.unchecked
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if field.Type == model.FieldTypeSelect {
		if label := field.OptionLabel(value); label != value {
			return b.definitionText(label)
		}
	}
	return value
}

// definitionText strips markup from titles and labels read from the form
// definition. The strict policy escapes entities, which the plain-text report
// does not want.
func (b *Builder) definitionText(value string) string {
	return strings.TrimSpace(html.UnescapeString(b.policy.Sanitize(value)))
}

func sectionsContext(sections []Section) []any {
	out := make([]any, 0, len(sections))
	for _, section := range sections {
		entries := make([]any, 0, len(section.Entries))
		for _, entry := range section.Entries {
			entries = append(entries, map[string]any{"label": entry.Label, "value": entry.Value})
		}
		out = append(out, map[string]any{
			"id":      section.ID,
			"title":   section.Title,
			"entries": entries,
		})
	}
	return out
}
