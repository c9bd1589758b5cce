// Package equity holds the time series a simulation produces
package equity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Point is the total account equity sampled at a market close. Date is the
// UTC calendar day of the sample
type Point struct {
	Date   time.Time
	Equity decimal.Decimal
}

// Allocation is the target weight vector in force on a date
type Allocation struct {
	Date    time.Time
	Weights map[string]float64
}

// Values returns the equity of every point as floats, in order
func Values(curve []Point) []float64 {
	resp := make([]float64, len(curve))
	for i := range curve {
		resp[i] = curve[i].Equity.InexactFloat64()
	}
	return resp
}
