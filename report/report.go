package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/engine"
	"github.com/replaytrader/replaytrader/eventhandlers/statistics"
	"github.com/replaytrader/replaytrader/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed tpl.gohtml
var tpl string

var printer = message.NewPrinter(language.English)

// New gathers the results of a finished session
func New(nickname, goal string, s *engine.Session, stats *statistics.Statistic) (*Data, error) {
	if s == nil {
		return nil, common.ErrNilArguments
	}
	if stats == nil {
		return nil, fmt.Errorf("%w %w", common.ErrNilArguments, errNilStatistics)
	}
	pnl, commission, err := s.Broker().PortfolioRealisedPnL(s.PortfolioID())
	if err != nil {
		return nil, err
	}
	return &Data{
		Nickname:        nickname,
		Goal:            goal,
		Statistics:      stats,
		EquityCurve:     s.EquityCurve(),
		Allocations:     s.TargetAllocations(),
		Rejections:      s.RejectedOrders(),
		RealisedPnL:     pnl,
		TotalCommission: commission,
	}, nil
}

// GenerateReport renders the html report into dir and returns its path
func (d *Data) GenerateReport(dir string) (string, error) {
	if d.Statistics == nil {
		return "", fmt.Errorf("%w %w", common.ErrNilArguments, errNilStatistics)
	}
	var err error
	if d.EquityChart, err = createEquityChart(d.EquityCurve); err != nil {
		return "", err
	}
	if d.DrawdownChart, err = createDrawdownChart(d.EquityCurve); err != nil {
		return "", err
	}
	d.AllocationChart = createAllocationChart(d.Allocations)

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct":   formatPercent,
		"money": formatMoney,
		"date": func(t time.Time) string {
			return t.Format(common.SimpleTimeFormat)
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0o770); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName(d.Nickname))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(log.Report, closeErr)
		}
	}()
	if err = tmpl.Execute(f, d); err != nil {
		return "", err
	}
	log.Infof(log.Report, "successfully saved report to %v", path)
	return path, nil
}

// PrintResults logs the headline statistics
func (d *Data) PrintResults() {
	if d.Statistics == nil {
		log.Warnln(log.Report, "no statistics to print")
		return
	}
	s := d.Statistics
	log.Info(log.Report, "------------------Results-----------------------------------")
	if d.Nickname != "" {
		log.Infof(log.Report, "Run: %s", d.Nickname)
	}
	log.Infof(log.Report, "Period: %s to %s, %d samples",
		s.StartDate.Format(common.SimpleTimeFormat), s.EndDate.Format(common.SimpleTimeFormat), s.Periods)
	log.Infof(log.Report, "Starting equity: %s", formatMoney(s.StartingEquity.InexactFloat64()))
	log.Infof(log.Report, "Final equity: %s", formatMoney(s.FinalEquity.InexactFloat64()))
	log.Infof(log.Report, "Total return: %s", formatPercent(s.TotalReturn))
	log.Infof(log.Report, "CAGR: %s", formatPercent(s.CAGR))
	log.Infof(log.Report, "Annualised volatility: %s", formatPercent(s.AnnualisedVolatility))
	log.Infof(log.Report, "Sharpe ratio: %.4f", s.SharpeRatio)
	log.Infof(log.Report, "Sortino ratio: %.4f", s.SortinoRatio)
	log.Infof(log.Report, "Calmar ratio: %.4f", s.CalmarRatio)
	log.Infof(log.Report, "Max drawdown: %s from a peak of %s on %s, lasting %d samples",
		formatPercent(s.MaxDrawdown.Drawdown),
		formatMoney(s.MaxDrawdown.Highest.InexactFloat64()),
		s.MaxDrawdown.PeakDate.Format(common.SimpleTimeFormat),
		s.MaxDrawdown.Duration)
	log.Infof(log.Report, "Realised PnL: %s, commission paid: %s",
		formatMoney(d.RealisedPnL.InexactFloat64()), formatMoney(d.TotalCommission.InexactFloat64()))
	if len(d.Rejections) > 0 {
		log.Warnf(log.Report, "%d orders were rejected", len(d.Rejections))
		for i := range d.Rejections {
			log.Warnf(log.Report, "%s %s: %v",
				d.Rejections[i].Time.Format(common.SimpleTimeFormatWithTime),
				d.Rejections[i].Order.String(),
				d.Rejections[i].Reason)
		}
	}
}

func formatPercent(f float64) string {
	return printer.Sprintf("%.2f%%", f*100)
}

func formatMoney(f float64) string {
	return printer.Sprintf("%.2f", f)
}

func fileName(nickname string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, nickname)
	if name == "" {
		name = "replaytrader"
	}
	return name + "-" + time.Now().UTC().Format("2006-01-02-15-04-05") + ".html"
}
