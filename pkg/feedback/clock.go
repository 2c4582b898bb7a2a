package feedback

import "time"

// Timer is the subset of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Clock schedules the auto-dismiss callback. Tests swap in a fake.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock schedules with time.AfterFunc.
type SystemClock struct{}

// AfterFunc calls time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
