package exchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

// Exchange names accepted by New
const (
	AlwaysOpenName = "always_open"
	SessionName    = "session"
)

const (
	// DefaultOpen is the regular session open, 14:30 UTC
	DefaultOpen = 14*time.Hour + 30*time.Minute
	// DefaultClose is the regular session close, 21:00 UTC
	DefaultClose = 21 * time.Hour
)

// IsOpen always returns true
func (AlwaysOpen) IsOpen(time.Time) bool {
	return true
}

// NewSession returns a weekday session exchange with the given opening hours
func NewSession(open, closing time.Duration) (*Session, error) {
	if open < 0 || closing > 24*time.Hour || open >= closing {
		return nil, fmt.Errorf("%w: invalid session hours %v - %v", common.ErrConfiguration, open, closing)
	}
	return &Session{Open: open, Close: closing}, nil
}

// IsOpen reports whether t falls on a weekday within the session hours
func (s *Session) IsOpen(t time.Time) bool {
	if !common.IsBusinessDay(t) {
		return false
	}
	sinceMidnight := t.UTC().Sub(common.Date(t))
	return sinceMidnight >= s.Open && sinceMidnight <= s.Close
}

// New builds an exchange from its config name
func New(name string) (Exchange, error) {
	switch strings.ToLower(name) {
	case "", AlwaysOpenName:
		return AlwaysOpen{}, nil
	case SessionName:
		return NewSession(DefaultOpen, DefaultClose)
	}
	return nil, fmt.Errorf("%w: unknown exchange %q", common.ErrConfiguration, name)
}
