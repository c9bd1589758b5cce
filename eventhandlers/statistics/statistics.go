package statistics

import (
	"encoding/json"

	commonmath "github.com/replaytrader/replaytrader/common/math"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
)

// Calculate derives the tearsheet figures of an equity curve sampled once
// per trading day. The risk free rate is annual
func Calculate(curve []equity.Point, riskFreeRate float64) (*Statistic, error) {
	if len(curve) == 0 {
		return nil, errReceivedNoData
	}
	first, last := curve[0], curve[len(curve)-1]
	s := &Statistic{
		StartDate:      first.Date,
		EndDate:        last.Date,
		Periods:        len(curve),
		StartingEquity: first.Equity,
		FinalEquity:    last.Equity,
	}
	if first.Equity.IsPositive() {
		s.TotalReturn = last.Equity.Div(first.Equity).InexactFloat64() - 1
	}
	values := equity.Values(curve)
	returns := commonmath.Returns(values)
	periodRiskFree := riskFreeRate / TradingDaysPerYear
	s.CAGR = commonmath.CompoundAnnualGrowthRate(values[0], values[len(values)-1], TradingDaysPerYear, float64(len(values)))
	s.AnnualisedVolatility = commonmath.AnnualisedVolatility(returns, TradingDaysPerYear)
	s.SharpeRatio = commonmath.SharpeRatio(returns, periodRiskFree, TradingDaysPerYear)
	s.SortinoRatio = commonmath.SortinoRatio(returns, periodRiskFree, TradingDaysPerYear)
	s.MaxDrawdown = MaxDrawdown(curve)
	s.CalmarRatio = commonmath.CalmarRatio(s.CAGR, s.MaxDrawdown.Drawdown)
	return s, nil
}

// MaxDrawdown finds the deepest peak to trough decline of the curve along
// with how long the curve stayed under that peak
func MaxDrawdown(curve []equity.Point) Swing {
	var (
		worst    Swing
		peak     int
		worstEnd = -1
	)
	for i := range curve {
		if curve[i].Equity.GreaterThanOrEqual(curve[peak].Equity) {
			if worstEnd >= 0 && peak == worstEnd {
				worst.Duration = i - peak
				worstEnd = -1
			}
			peak = i
			continue
		}
		if !curve[peak].Equity.IsPositive() {
			continue
		}
		dd := 1 - curve[i].Equity.Div(curve[peak].Equity).InexactFloat64()
		if dd > worst.Drawdown {
			worst = Swing{
				Highest:  curve[peak].Equity,
				Lowest:   curve[i].Equity,
				PeakDate: curve[peak].Date,
				Drawdown: dd,
				Duration: len(curve) - 1 - peak,
			}
			worstEnd = peak
		}
	}
	return worst
}

// Serialise returns the statistic as indented JSON
func (s *Statistic) Serialise() (string, error) {
	resp, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}
