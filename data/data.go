package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/log"
	"github.com/shopspring/decimal"
)

const (
	openOffset  = 14*time.Hour + 30*time.Minute
	closeOffset = 21 * time.Hour
)

// NewDailyBars returns an empty bar store
func NewDailyBars() *DailyBars {
	return &DailyBars{bars: make(map[string][]Bar)}
}

// Load stores bars for an asset, replacing any previously loaded bars. Bars
// are sorted by date and their dates normalised to midnight UTC
func (d *DailyBars) Load(asset string, bars []Bar) error {
	if asset == "" {
		return fmt.Errorf("%w: asset unset", common.ErrNilArguments)
	}
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	for i := range sorted {
		if sorted[i].Open.IsNegative() || !sorted[i].Close.IsPositive() {
			return fmt.Errorf("%s %w on %s: open %s close %s",
				asset, errInvalidBar, sorted[i].Date.Format(common.SimpleTimeFormat), sorted[i].Open, sorted[i].Close)
		}
		sorted[i].Date = common.Date(sorted[i].Date)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return fmt.Errorf("%s %w %s", asset, errDuplicateBar, sorted[i].Date.Format(common.SimpleTimeFormat))
		}
	}
	d.bars[asset] = sorted
	log.Debugf(log.Data, "loaded %d bars for %s", len(sorted), asset)
	return nil
}

// LatestPrice returns the most recent open or close price stamped at or
// before t
func (d *DailyBars) LatestPrice(asset string, t time.Time) (decimal.Decimal, error) {
	bars := d.bars[asset]
	day := common.Date(t)
	// first bar dated after the query day
	i := sort.Search(len(bars), func(i int) bool {
		return bars[i].Date.After(day)
	})
	if i == 0 {
		return decimal.Zero, fmt.Errorf("%w for %s at %s", ErrNoPriceData, asset, t.UTC().Format(common.SimpleTimeFormatWithTime))
	}
	b := bars[i-1]
	if b.Date.Before(day) {
		return b.Close, nil
	}
	sinceMidnight := t.UTC().Sub(day)
	switch {
	case sinceMidnight >= closeOffset:
		return b.Close, nil
	case sinceMidnight >= openOffset && b.Open.IsPositive():
		return b.Open, nil
	case i >= 2:
		return bars[i-2].Close, nil
	}
	return decimal.Zero, fmt.Errorf("%w for %s at %s", ErrNoPriceData, asset, t.UTC().Format(common.SimpleTimeFormatWithTime))
}

// Bars returns the loaded bars for an asset
func (d *DailyBars) Bars(asset string) []Bar {
	return d.bars[asset]
}

// Assets returns the loaded asset identifiers in sorted order
func (d *DailyBars) Assets() []string {
	assets := make([]string, 0, len(d.bars))
	for a := range d.bars {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}

// FirstDate returns the date of the first bar of an asset
func (d *DailyBars) FirstDate(asset string) (time.Time, bool) {
	bars := d.bars[asset]
	if len(bars) == 0 {
		return time.Time{}, false
	}
	return bars[0].Date, true
}
