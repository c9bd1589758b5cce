package math

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RoundFloat rounds your floating point number to the desired decimal place
func RoundFloat(x float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	return math.Round(x*pow) / pow
}

// Returns converts a series of values into simple period returns. Periods
// starting from zero are skipped
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	resp := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		resp = append(resp, values[i]/values[i-1]-1)
	}
	return resp
}

// CompoundAnnualGrowthRate returns CAGR as a fraction.
// Using days, intervals per year would be 252 and number of intervals would
// be the number of trading days observed
func CompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue <= 0 || numberOfIntervals <= 0 {
		return 0
	}
	return math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
}

// CalmarRatio is the compounded annual rate of return versus its maximum
// drawdown, where drawdown is a positive fraction
func CalmarRatio(cagr, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return cagr / maxDrawdown
}

// SharpeRatio returns the annualised sharpe ratio of period returns against
// a per period risk free rate
func SharpeRatio(returns []float64, riskFreeRate, periodsPerYear float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i := range returns {
		excess[i] = returns[i] - riskFreeRate
	}
	mean, std := stat.MeanStdDev(excess, nil)
	if std == 0 {
		return 0
	}
	return math.Sqrt(periodsPerYear) * mean / std
}

// SortinoRatio is the sharpe ratio penalising downside deviation only
func SortinoRatio(returns []float64, riskFreeRate, periodsPerYear float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	var downside float64
	excess := make([]float64, len(returns))
	for i := range returns {
		excess[i] = returns[i] - riskFreeRate
		if excess[i] < 0 {
			downside += excess[i] * excess[i]
		}
	}
	if downside == 0 {
		return 0
	}
	deviation := math.Sqrt(downside / float64(len(returns)))
	return math.Sqrt(periodsPerYear) * stat.Mean(excess, nil) / deviation
}

// AnnualisedVolatility returns the sample standard deviation of period
// returns scaled to a year
func AnnualisedVolatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear)
}
