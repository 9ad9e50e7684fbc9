package utils

import "time"

// Clock provides the current time. Scoring code takes a Clock instead of calling time.Now.
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns T
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
