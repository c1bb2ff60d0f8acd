package canvas

import "time"

// Timer is a cancellable deadline, the handle armed for long-press
// detection. Stop reports whether the timer was still pending.
type Timer interface {
	Stop() bool
}

// Clock abstracts timer creation so tests can fire or cancel long-press
// deadlines deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock backed Clock used outside tests.
func SystemClock() Clock { return systemClock{} }
