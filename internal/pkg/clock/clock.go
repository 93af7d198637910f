// Package clock provides the wall clock used outside of tests.
package clock

import "time"

// System reads the real time in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Tests advance it by replacing At.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance moves a fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
