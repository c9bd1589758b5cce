package simulation

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/eventtypes/event"
)

var (
	errEndBeforeStart = errors.New("end date is before start date")
	errNoEventTypes   = errors.New("no session event types enabled")
)

// Settings toggles which session events are emitted each business day
type Settings struct {
	PreMarket   bool `json:"pre-market" mapstructure:"pre-market"`
	MarketOpen  bool `json:"market-open" mapstructure:"market-open"`
	MarketClose bool `json:"market-close" mapstructure:"market-close"`
	PostMarket  bool `json:"post-market" mapstructure:"post-market"`
}

// offsets from midnight UTC for each session event
var eventTimes = []struct {
	t      event.Type
	offset time.Duration
}{
	{event.PreMarket, 0},
	{event.MarketOpen, 14*time.Hour + 30*time.Minute},
	{event.MarketClose, 21 * time.Hour},
	{event.PostMarket, 23*time.Hour + 59*time.Minute},
}

// Engine lazily yields session events across business days. It buffers at
// most one day of events and cannot be restarted
type Engine struct {
	day     time.Time
	end     time.Time
	pending []event.Event
	enabled []event.Type
	done    bool
}
