package output

import "time"

// Clock supplies the current time.
// Every time comparison in the application goes through this interface so
// tests can drive phase completion deterministically.
type Clock interface {
	// Now returns the current time in UTC
	Now() time.Time
}
