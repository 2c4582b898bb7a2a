// Package form holds the runtime state of an intake form instantiated from a
// model.FormModel. It owns field values, requiredness and validity markers
// and publishes every change to two kinds of subscribers:
//
//   - listeners receive Events (change, input, blur, reset) and implement
//     behaviour such as validation and conditional requirements;
//   - observers receive Field snapshots and implement presentation
//     (validity markers, values shown to the user).
//
// Subscribers run synchronously on the goroutine that mutated the form, in
// registration order, and may mutate the form again from inside a callback.
package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-intake/pkg/model"
)

// ErrUnknownField is returned when an operation names a field the form does
// not declare.
var ErrUnknownField = errors.New("form: unknown field")

// EventKind identifies what happened to a field.
type EventKind int

const (
	// EventChange fires whenever a field value changes, whatever the source.
	EventChange EventKind = iota
	// EventInput fires after EventChange when the user edited the value.
	EventInput
	// EventBlur fires when the user leaves a field.
	EventBlur
	// EventReset fires once after Reset cleared every field.
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventInput:
		return "input"
	case EventBlur:
		return "blur"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a field interaction. Field is empty for EventReset.
type Event struct {
	Kind  EventKind
	Field string
}

// Listener reacts to form events.
type Listener func(f *Form, evt Event)

// Observer is notified with a fresh snapshot whenever a field's value,
// requiredness or validity changes.
type Observer interface {
	FieldChanged(field Field)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(field Field)

// FieldChanged calls the underlying function.
func (fn ObserverFunc) FieldChanged(field Field) { fn(field) }

// Form is the mutable state of one intake form.
type Form struct {
	def model.FormModel

	mu     sync.RWMutex
	fields []*Field
	index  map[string]int

	subMu     sync.Mutex
	nextID    int
	listeners []subscription[Listener]
	observers []subscription[Observer]
}

type subscription[T any] struct {
	id int
	fn T
}

// New normalises and validates the definition and instantiates a form with
// every field empty and untouched.
func New(def model.FormModel) (*Form, error) {
	def = model.Normalize(def)
	if err := model.Validate(def); err != nil {
		return nil, err
	}

	f := &Form{
		def:    def,
		fields: make([]*Field, 0, len(def.Fields)),
		index:  make(map[string]int, len(def.Fields)),
	}
	for i, fieldDef := range def.Fields {
		f.fields = append(f.fields, &Field{
			Def:      fieldDef,
			Required: fieldDef.Required,
		})
		f.index[fieldDef.Name] = i
	}
	return f, nil
}

// Definition returns the model the form was built from.
func (f *Form) Definition() model.FormModel {
	return f.def
}

// Field returns a snapshot of the named field.
func (f *Form) Field(name string) (Field, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	idx, ok := f.index[name]
	if !ok {
		return Field{}, false
	}
	return *f.fields[idx], true
}

// Fields returns snapshots of every field in definition order.
func (f *Form) Fields() []Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Field, len(f.fields))
	for i, field := range f.fields {
		out[i] = *field
	}
	return out
}

// Values exposes the current values for rule evaluation: strings for
// text-like fields, booleans for checkboxes.
func (f *Form) Values() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		out[field.Name()] = field.ruleValue()
	}
	return out
}

// Snapshot captures every field value into an immutable Record.
func (f *Form) Snapshot() Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.fields))
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		names = append(names, field.Name())
		values[field.Name()] = field.RecordValue()
	}
	return NewRecord(names, values)
}

// Input records a user edit of a field's raw value and emits EventChange
// (when the value differs) followed by EventInput.
func (f *Form) Input(name, value string) error {
	changed, snap, err := f.update(name, func(field *Field) bool {
		if field.Value == value {
			return false
		}
		field.Value = value
		return true
	})
	if err != nil {
		return err
	}
	if changed {
		f.notify(snap)
		f.emit(Event{Kind: EventChange, Field: name})
	}
	f.emit(Event{Kind: EventInput, Field: name})
	return nil
}

// Check records a user toggling a checkbox and emits EventChange (when the
// state differs) followed by EventInput.
func (f *Form) Check(name string, checked bool) error {
	changed, snap, err := f.update(name, func(field *Field) bool {
		if field.Checked == checked {
			return false
		}
		field.Checked = checked
		return true
	})
	if err != nil {
		return err
	}
	if changed {
		f.notify(snap)
		f.emit(Event{Kind: EventChange, Field: name})
	}
	f.emit(Event{Kind: EventInput, Field: name})
	return nil
}

// Blur records the user leaving a field.
func (f *Form) Blur(name string) error {
	if _, ok := f.Field(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.emit(Event{Kind: EventBlur, Field: name})
	return nil
}

// Clear empties a field programmatically and resets its validity marker.
// EventChange fires when the value actually changed; no EventInput is
// emitted.
func (f *Form) Clear(name string) error {
	valueChanged := false
	changed, snap, err := f.update(name, func(field *Field) bool {
		valueChanged = field.Value != "" || field.Checked
		dirty := valueChanged || field.Validity != Untouched
		field.Value = ""
		field.Checked = false
		field.Validity = Untouched
		return dirty
	})
	if err != nil {
		return err
	}
	if changed {
		f.notify(snap)
	}
	if valueChanged {
		f.emit(Event{Kind: EventChange, Field: name})
	}
	return nil
}

// SetRequired toggles the runtime requiredness of a field.
func (f *Form) SetRequired(name string, required bool) error {
	changed, snap, err := f.update(name, func(field *Field) bool {
		if field.Required == required {
			return false
		}
		field.Required = required
		return true
	})
	if err != nil {
		return err
	}
	if changed {
		f.notify(snap)
	}
	return nil
}

// Mark sets the validity marker of a field.
func (f *Form) Mark(name string, validity Validity) error {
	changed, snap, err := f.update(name, func(field *Field) bool {
		if field.Validity == validity {
			return false
		}
		field.Validity = validity
		return true
	})
	if err != nil {
		return err
	}
	if changed {
		f.notify(snap)
	}
	return nil
}

// Reset clears every value and validity marker, emitting EventChange for
// each field whose value changed and a final EventReset. Requiredness is
// left to the listeners reacting to those changes.
func (f *Form) Reset() {
	f.mu.Lock()
	var (
		valueChanged []string
		snaps        []Field
	)
	for _, field := range f.fields {
		hadValue := field.Value != "" || field.Checked
		if !hadValue && field.Validity == Untouched {
			continue
		}
		field.Value = ""
		field.Checked = false
		field.Validity = Untouched
		snaps = append(snaps, *field)
		if hadValue {
			valueChanged = append(valueChanged, field.Name())
		}
	}
	f.mu.Unlock()

	for _, snap := range snaps {
		f.notify(snap)
	}
	for _, name := range valueChanged {
		f.emit(Event{Kind: EventChange, Field: name})
	}
	f.emit(Event{Kind: EventReset})
}

// Listen registers a listener and returns a function that removes it.
func (f *Form) Listen(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	f.subMu.Lock()
	defer f.subMu.Unlock()
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, subscription[Listener]{id: id, fn: fn})
	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		f.listeners = removeSubscription(f.listeners, id)
	}
}

// Observe registers an observer and returns a function that removes it.
func (f *Form) Observe(obs Observer) func() {
	if obs == nil {
		return func() {}
	}
	f.subMu.Lock()
	defer f.subMu.Unlock()
	f.nextID++
	id := f.nextID
	f.observers = append(f.observers, subscription[Observer]{id: id, fn: obs})
	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		f.observers = removeSubscription(f.observers, id)
	}
}

func (f *Form) update(name string, mutate func(*Field) bool) (bool, Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, ok := f.index[name]
	if !ok {
		return false, Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	field := f.fields[idx]
	changed := mutate(field)
	return changed, *field, nil
}

func (f *Form) emit(evt Event) {
	f.subMu.Lock()
	listeners := make([]subscription[Listener], len(f.listeners))
	copy(listeners, f.listeners)
	f.subMu.Unlock()

	for _, sub := range listeners {
		sub.fn(f, evt)
	}
}

func (f *Form) notify(field Field) {
	f.subMu.Lock()
	observers := make([]subscription[Observer], len(f.observers))
	copy(observers, f.observers)
	f.subMu.Unlock()

	for _, sub := range observers {
		sub.fn.FieldChanged(field)
	}
}

func removeSubscription[T any](subs []subscription[T], id int) []subscription[T] {
	out := subs[:0]
	for _, sub := range subs {
		if sub.id != id {
			out = append(out, sub)
		}
	}
	return out
}
