package form

// Record is an immutable snapshot of every field value at submission time,
// keyed by field name. Names preserves form order for deterministic output;
// consumers must not rely on it for semantics.
type Record struct {
	values map[string]string
	names  []string
}

// NewRecord builds a record from name/value pairs. Later duplicates win.
func NewRecord(names []string, values map[string]string) Record {
	rec := Record{values: make(map[string]string, len(values))}
	for _, name := range names {
		value, ok := values[name]
		if !ok {
			continue
		}
		if _, seen := rec.values[name]; !seen {
			rec.names = append(rec.names, name)
		}
		rec.values[name] = value
	}
	return rec
}

// Get returns the value recorded for name.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the recorded value or the empty string.
func (r Record) Value(name string) string {
	return r.values[name]
}

// Names lists recorded field names in form order.
func (r Record) Names() []string {
	return append([]string(nil), r.names...)
}

// Values returns a copy of the name/value map.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Len reports the number of recorded fields.
func (r Record) Len() int {
	return len(r.names)
}
