package vanilla

import (
	"sync"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/orchestrator"
)

// PageState accumulates what the orchestrator asks the page to show: field
// snapshots with their validity markers, the submit control, the banner and
// the focus target. The server renders it once the pipeline returns.
type PageState struct {
	mu            sync.Mutex
	fields        map[string]form.Field
	focus         string
	submitEnabled bool
	submitLabel   string
	banner        feedback.Banner
	scroll        bool
}

var (
	_ orchestrator.Presenter = (*PageState)(nil)
	_ form.Observer          = (*PageState)(nil)
)

// NewPageState seeds the page with the current fields of f.
func NewPageState(f *form.Form) *PageState {
	p := &PageState{fields: make(map[string]form.Field)}
	if f != nil {
		for _, field := range f.Fields() {
			p.fields[field.Name()] = field
		}
	}
	return p
}

// FocusField records the field the page autofocuses on render.
func (p *PageState) FocusField(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus = name
}

// SetSubmitState records whether the submit button is enabled and its label.
func (p *PageState) SetSubmitState(enabled bool, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitEnabled = enabled
	p.submitLabel = label
}

// ShowBanner records the banner rendered above the form.
func (p *PageState) ShowBanner(b feedback.Banner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = b
}

// HideBanner keeps the banner text but renders it hidden.
func (p *PageState) HideBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner.Visible = false
}

// ScrollToBanner marks the page to open scrolled to the banner.
func (p *PageState) ScrollToBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scroll = true
}

// FieldChanged stores the latest snapshot of field with its validity marker.
func (p *PageState) FieldChanged(field form.Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[field.Name()] = field
}

// Field returns the last snapshot seen for name.
func (p *PageState) Field(name string) (form.Field, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	field, ok := p.fields[name]
	return field, ok
}

// Focus returns the field the page should focus.
func (p *PageState) Focus() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focus
}

// Banner returns the banner to display.
func (p *PageState) Banner() feedback.Banner {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

// SubmitState returns the submit control state.
func (p *PageState) SubmitState() (enabled bool, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitEnabled, p.submitLabel
}

// Scrolled reports whether the page should scroll to the banner on load.
func (p *PageState) Scrolled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll
}
