package testsupport

import (
	"sync"

	"github.com/goliatone/go-intake/pkg/feedback"
	"github.com/goliatone/go-intake/pkg/form"
)

// SubmitState is a recorded SetSubmitState call.
type SubmitState struct {
	Enabled bool
	Label   string
}

// RecordingPresenter records every presentation call in order. Calls holds a
// flat log such as "focus:nome" or "banner:error" for sequence assertions.
type RecordingPresenter struct {
	mu       sync.Mutex
	Calls    []string
	Focused  []string
	Submit   []SubmitState
	Banners  []feedback.Banner
	Hidden   int
	Scrolled int
	Fields   map[string]form.Field
}

// NewRecordingPresenter returns an empty recorder.
func NewRecordingPresenter() *RecordingPresenter {
	return &RecordingPresenter{Fields: map[string]form.Field{}}
}

func (p *RecordingPresenter) FocusField(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Focused = append(p.Focused, name)
	p.Calls = append(p.Calls, "focus:"+name)
}

func (p *RecordingPresenter) SetSubmitState(enabled bool, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Submit = append(p.Submit, SubmitState{Enabled: enabled, Label: label})
	if enabled {
		p.Calls = append(p.Calls, "submit:enabled")
	} else {
		p.Calls = append(p.Calls, "submit:disabled")
	}
}

func (p *RecordingPresenter) ShowBanner(b feedback.Banner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Banners = append(p.Banners, b)
	p.Calls = append(p.Calls, "banner:"+string(b.Kind))
}

func (p *RecordingPresenter) HideBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Hidden++
	p.Calls = append(p.Calls, "banner:hidden")
}

func (p *RecordingPresenter) ScrollToBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scrolled++
	p.Calls = append(p.Calls, "scroll:banner")
}

// FieldChanged implements form.Observer and keeps the last snapshot per
// field.
func (p *RecordingPresenter) FieldChanged(field form.Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Fields[field.Name()] = field
}

// LastBanner returns the most recently shown banner.
func (p *RecordingPresenter) LastBanner() (feedback.Banner, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Banners) == 0 {
		return feedback.Banner{}, false
	}
	return p.Banners[len(p.Banners)-1], true
}

// CallLog returns a copy of the call sequence.
func (p *RecordingPresenter) CallLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Calls...)
}
