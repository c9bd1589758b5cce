package report

import (
	"fmt"
	"sort"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
)

// createEquityChart plots total account equity over time
func createEquityChart(curve []equity.Point) (*Chart, error) {
	if len(curve) == 0 {
		return nil, fmt.Errorf("%w %w", common.ErrNilArguments, errNoEquity)
	}
	plots := make([]LinePlot, len(curve))
	for i := range curve {
		plots[i] = LinePlot{
			Value:     curve[i].Equity.InexactFloat64(),
			UnixMilli: curve[i].Date.UnixMilli(),
		}
	}
	return &Chart{
		AxisType: "linear",
		Data:     []ChartLine{{Name: "Total equity", LinePlots: plots}},
	}, nil
}

// createDrawdownChart plots the percentage fall from the running equity
// peak, zero at every new high
func createDrawdownChart(curve []equity.Point) (*Chart, error) {
	if len(curve) == 0 {
		return nil, fmt.Errorf("%w %w", common.ErrNilArguments, errNoEquity)
	}
	plots := make([]LinePlot, len(curve))
	peak := curve[0].Equity
	for i := range curve {
		if curve[i].Equity.GreaterThan(peak) {
			peak = curve[i].Equity
		}
		var dd float64
		if peak.IsPositive() {
			dd = curve[i].Equity.Sub(peak).Div(peak).InexactFloat64() * 100
		}
		plots[i] = LinePlot{Value: dd, UnixMilli: curve[i].Date.UnixMilli()}
	}
	return &Chart{
		AxisType: "linear",
		Data:     []ChartLine{{Name: "Drawdown %", LinePlots: plots}},
	}, nil
}

// createAllocationChart plots one line of target weights per asset
func createAllocationChart(allocs []equity.Allocation) *Chart {
	lines := make(map[string]*ChartLine)
	for i := range allocs {
		for asset, w := range allocs[i].Weights {
			line, ok := lines[asset]
			if !ok {
				line = &ChartLine{Name: asset}
				lines[asset] = line
			}
			line.LinePlots = append(line.LinePlots, LinePlot{
				Value:     w,
				UnixMilli: allocs[i].Date.UnixMilli(),
			})
		}
	}
	resp := &Chart{AxisType: "linear"}
	for _, line := range lines {
		resp.Data = append(resp.Data, *line)
	}
	sort.Slice(resp.Data, func(i, j int) bool {
		return resp.Data[i].Name < resp.Data[j].Name
	})
	return resp
}
