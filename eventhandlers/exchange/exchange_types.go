package exchange

import "time"

// Exchange reports whether the market is trading at a given instant
type Exchange interface {
	IsOpen(time.Time) bool
}

// AlwaysOpen accepts orders at every instant
type AlwaysOpen struct{}

// Session is open on weekdays between Open and Close, inclusive at both
// ends, expressed as offsets from midnight UTC
type Session struct {
	Open  time.Duration
	Close time.Duration
}
