// Package clock provides time abstractions for production and testing
package clock

import "time"

// SystemClock tells wall-clock time in UTC
type SystemClock struct{}

// After returns a channel that sends the current time after the specified duration
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Now returns the current time in UTC
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always tells the same time. Its After channels fire immediately.
type Fixed time.Time

// After returns a channel that already holds the fixed time
func (f Fixed) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time(f)
	return ch
}

// Now returns the fixed time
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
