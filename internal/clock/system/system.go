// Package system provides a real clock implementation.
package system

import "time"

// Clock implements tracker.Clock using time.Now. Run timestamps feed the
// sync commit message, so they are always UTC.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
