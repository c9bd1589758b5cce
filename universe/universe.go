package universe

import (
	"fmt"
	"slices"
	"time"

	"github.com/replaytrader/replaytrader/common"
)

// NewStatic returns a static universe of the given assets. Duplicates are
// removed and the order is made deterministic
func NewStatic(assets ...string) (*Static, error) {
	s := &Static{}
	for i := range assets {
		if assets[i] == "" {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, errEmptyAsset)
		}
		if !slices.Contains(s.assets, assets[i]) {
			s.assets = append(s.assets, assets[i])
		}
	}
	slices.Sort(s.assets)
	return s, nil
}

// Assets returns a copy of every asset, regardless of time
func (s *Static) Assets(time.Time) []string {
	return slices.Clone(s.assets)
}

// NewDynamic returns a universe where each asset is only tradeable from its
// start date onwards
func NewDynamic(starts map[string]time.Time) (*Dynamic, error) {
	d := &Dynamic{starts: make(map[string]time.Time, len(starts))}
	for a, t := range starts {
		if a == "" {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, errEmptyAsset)
		}
		d.starts[a] = t.UTC()
	}
	return d, nil
}

// Assets returns the assets whose start date is at or before t, sorted
func (d *Dynamic) Assets(t time.Time) []string {
	var out []string
	for a, start := range d.starts {
		if !start.After(t) {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}
