package clock

import "time"

// SystemClock reads the host wall clock in UTC
type SystemClock struct{}

// NewSystemClock creates a system clock
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time
func (*SystemClock) Now() time.Time {
	return time.Now().UTC()
}
