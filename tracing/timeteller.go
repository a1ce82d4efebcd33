package tracing

import "time"

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() time.Time
}

// WallClock is a TimeTeller that reports the real system time.
type WallClock struct{}

// CurrentTime returns the current system time.
func (WallClock) CurrentTime() time.Time { return time.Now() }
