package simulation

import (
	"testing"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventtypes/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	s := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err := New(s, s.AddDate(0, 0, -1), DefaultSettings())
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, errEndBeforeStart)
	_, err = New(s, s, Settings{})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestNextDefault(t *testing.T) {
	t.Parallel()
	// Friday to Monday
	e, err := New(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC), DefaultSettings())
	require.NoError(t, err)
	evs := e.Events()
	require.Len(t, evs, 4)
	assert.Equal(t, event.Event{Time: time.Date(2020, 1, 3, 14, 30, 0, 0, time.UTC), Type: event.MarketOpen}, evs[0])
	assert.Equal(t, event.Event{Time: time.Date(2020, 1, 3, 21, 0, 0, 0, time.UTC), Type: event.MarketClose}, evs[1])
	assert.Equal(t, time.Date(2020, 1, 6, 14, 30, 0, 0, time.UTC), evs[2].Time)
	assert.Equal(t, time.Date(2020, 1, 6, 21, 0, 0, 0, time.UTC), evs[3].Time)

	_, ok := e.Next()
	assert.False(t, ok, "engine must be single pass")
}

func TestNextAllEvents(t *testing.T) {
	t.Parallel()
	e, err := New(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC), Settings{
		PreMarket:   true,
		MarketOpen:  true,
		MarketClose: true,
		PostMarket:  true,
	})
	require.NoError(t, err)
	var last time.Time
	counts := map[event.Type]int{}
	for ev, ok := e.Next(); ok; ev, ok = e.Next() {
		assert.True(t, ev.Time.After(last), "events must be strictly ascending")
		assert.True(t, common.IsBusinessDay(ev.Time))
		last = ev.Time
		counts[ev.Type]++
	}
	// 2020 Q1 has 65 weekdays
	for _, typ := range []event.Type{event.PreMarket, event.MarketOpen, event.MarketClose, event.PostMarket} {
		assert.Equal(t, 65, counts[typ], typ.String())
	}
	assert.Equal(t, time.Date(2020, 3, 31, 23, 59, 0, 0, time.UTC), last)
}

func TestWeekendOnlyRange(t *testing.T) {
	t.Parallel()
	e, err := New(time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC), DefaultSettings())
	require.NoError(t, err)
	assert.Empty(t, e.Events())
}
