package simulation

import (
	"fmt"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventtypes/event"
)

// DefaultSettings emits the market open and market close events only
func DefaultSettings() Settings {
	return Settings{MarketOpen: true, MarketClose: true}
}

// New creates an engine covering the calendar days of [start, end]
func New(start, end time.Time, s Settings) (*Engine, error) {
	first, last := common.Date(start), common.Date(end)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: %w %s < %s",
			common.ErrValidation,
			errEndBeforeStart,
			last.Format(common.SimpleTimeFormat),
			first.Format(common.SimpleTimeFormat))
	}
	var enabled []event.Type
	toggles := map[event.Type]bool{
		event.PreMarket:   s.PreMarket,
		event.MarketOpen:  s.MarketOpen,
		event.MarketClose: s.MarketClose,
		event.PostMarket:  s.PostMarket,
	}
	for i := range eventTimes {
		if toggles[eventTimes[i].t] {
			enabled = append(enabled, eventTimes[i].t)
		}
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errNoEventTypes)
	}
	return &Engine{day: first, end: last, enabled: enabled}, nil
}

// Next returns the next event in ascending time order. The second return is
// false once the range is exhausted, and stays false
func (e *Engine) Next() (event.Event, bool) {
	for len(e.pending) == 0 {
		if e.done || e.day.After(e.end) {
			e.done = true
			return event.Event{}, false
		}
		if common.IsBusinessDay(e.day) {
			e.fill(e.day)
		}
		e.day = e.day.AddDate(0, 0, 1)
	}
	ev := e.pending[0]
	e.pending = e.pending[1:]
	return ev, true
}

func (e *Engine) fill(day time.Time) {
	for i := range eventTimes {
		for j := range e.enabled {
			if e.enabled[j] == eventTimes[i].t {
				e.pending = append(e.pending, event.Event{
					Time: day.Add(eventTimes[i].offset),
					Type: eventTimes[i].t,
				})
			}
		}
	}
}

// Events drains the engine, for callers that want the full sequence
func (e *Engine) Events() []event.Event {
	var evs []event.Event
	for ev, ok := e.Next(); ok; ev, ok = e.Next() {
		evs = append(evs, ev)
	}
	return evs
}
