// Package feedback owns the single banner that reports submission outcomes.
// Success banners dismiss themselves after a timeout; warnings and errors
// stay until replaced or hidden explicitly.
package feedback

import (
	"sync"
	"time"
)

// Kind classifies a banner.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Banner is the observable banner state.
type Banner struct {
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	// Link is an optional contact shortcut shown with the message.
	Link    string `json:"link,omitempty"`
	Visible bool   `json:"visible"`
	// DismissAfter is zero for persistent banners.
	DismissAfter time.Duration `json:"dismiss_after,omitempty"`
}

// Listener observes banner transitions.
type Listener func(Banner)

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the timer source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithListener registers a listener notified after every transition.
func WithListener(fn Listener) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// Controller serialises banner state. Showing a banner replaces the current
// one and cancels its pending dismissal.
type Controller struct {
	mu         sync.Mutex
	clock      Clock
	current    Banner
	generation uint64
	timer      Timer
	listeners  []Listener
}

// NewController returns a controller with a hidden banner.
func NewController(opts ...Option) *Controller {
	c := &Controller{clock: SystemClock{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Current returns the banner state.
func (c *Controller) Current() Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Success shows a banner that hides itself after timeout. A non-positive
// timeout keeps it visible.
func (c *Controller) Success(message string, timeout time.Duration) Banner {
	return c.Show(Banner{Kind: KindSuccess, Message: message, DismissAfter: timeout})
}

// Warning shows a persistent warning banner.
func (c *Controller) Warning(message string) Banner {
	return c.Show(Banner{Kind: KindWarning, Message: message})
}

// Error shows a persistent error banner with an optional contact link.
func (c *Controller) Error(message, link string) Banner {
	return c.Show(Banner{Kind: KindError, Message: message, Link: link})
}

// Show replaces the current banner. Only success banners with a positive
// DismissAfter are scheduled for dismissal.
func (c *Controller) Show(b Banner) Banner {
	b.Visible = true
	if b.Kind != KindSuccess || b.DismissAfter < 0 {
		b.DismissAfter = 0
	}

	c.mu.Lock()
	c.stopLocked()
	c.generation++
	gen := c.generation
	c.current = b
	if b.DismissAfter > 0 {
		c.timer = c.clock.AfterFunc(b.DismissAfter, func() { c.expire(gen) })
	}
	c.mu.Unlock()

	c.notify(b)
	return b
}

// Hide hides the banner and cancels any pending dismissal.
func (c *Controller) Hide() {
	c.mu.Lock()
	if !c.current.Visible {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.generation++
	c.current = Banner{}
	c.mu.Unlock()

	c.notify(Banner{})
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.generation++
	c.current = Banner{}
	c.mu.Unlock()

	c.notify(Banner{})
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) notify(b Banner) {
	for _, fn := range c.listeners {
		fn(b)
	}
}
