package alpha

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/signals"
	"github.com/replaytrader/replaytrader/log"
)

// NewMomentum returns a top N momentum model over the given lookback
func NewMomentum(c *signals.Collection, lookback, topN int) (*Momentum, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, errSignalsRequired)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: %w %v must be positive, received %d", common.ErrConfiguration, ErrInvalidCustomSettings, topNKey, topN)
	}
	if err := c.Require(lookback); err != nil {
		return nil, err
	}
	return &Momentum{collection: c, lookback: lookback, topN: topN}, nil
}

func newMomentum(custom map[string]any, c *signals.Collection) (*Momentum, error) {
	lookback, topN := 126, 1
	var err error
	for k, v := range custom {
		switch k {
		case lookbackKey:
			lookback, err = positiveInt(k, v)
		case topNKey:
			topN, err = positiveInt(k, v)
		default:
			err = unrecognised(k, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return NewMomentum(c, lookback, topN)
}

// Name returns the model name
func (m *Momentum) Name() string { return MomentumName }

// Description describes the model
func (m *Momentum) Description() string {
	return "Tactical allocation to the assets with the highest trailing return"
}

// Signals ranks assets by momentum, ties broken by asset, and signals the
// top N. When no asset has enough history every signal is zero
func (m *Momentum) Signals(t time.Time, assets []string) (map[string]float64, error) {
	type ranked struct {
		asset    string
		momentum float64
	}
	out := make(map[string]float64, len(assets))
	rank := make([]ranked, 0, len(assets))
	for _, a := range assets {
		out[a] = 0
		mom, err := m.collection.Momentum(a, m.lookback)
		if err != nil {
			if errors.Is(err, common.ErrValidation) {
				return nil, err
			}
			log.Debugf(log.Strategy, "%v momentum skipped at %v: %v", a, t, err)
			continue
		}
		rank = append(rank, ranked{asset: a, momentum: mom})
	}
	sort.Slice(rank, func(i, j int) bool {
		if rank[i].momentum == rank[j].momentum {
			return rank[i].asset < rank[j].asset
		}
		return rank[i].momentum > rank[j].momentum
	})
	for i := 0; i < len(rank) && i < m.topN; i++ {
		out[rank[i].asset] = 1
	}
	return out, nil
}
