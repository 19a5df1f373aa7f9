package clock

import "time"

// Clock supplies timestamps for rooms and games
type Clock interface {
	Now() time.Time
}

// System reads the wall clock. Times are always UTC so persisted rooms and
// games compare equal across backends.
type System struct{}

// New creates a System clock
func New() *System {
	return &System{}
}

// Now returns the current time in UTC
func (System) Now() time.Time {
	return time.Now().UTC()
}
