package event

import (
	"fmt"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

// String returns the config and log name of the event type
func (t Type) String() string {
	switch t {
	case PreMarket:
		return "pre_market"
	case MarketOpen:
		return "market_open"
	case MarketClose:
		return "market_close"
	case PostMarket:
		return "post_market"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// GetTime returns the event time
func (e Event) GetTime() time.Time {
	return e.Time
}

// IsMarketClose reports whether the event is the daily market close
func (e Event) IsMarketClose() bool {
	return e.Type == MarketClose
}

// String formats the event for console tracing
func (e Event) String() string {
	return fmt.Sprintf("(%s) - %s", e.Time.UTC().Format(common.SimpleTimeFormatWithTime), e.Type)
}
