// Package csv loads daily bars from Yahoo Finance style CSV exports
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/log"
	"github.com/shopspring/decimal"
)

var (
	errMissingColumn = errors.New("missing column")
	errInvalidRow    = errors.New("invalid row")
)

var requiredColumns = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// Read parses a CSV with a Date,Open,High,Low,Close,Adj Close,Volume header.
// Open, high, low and close are scaled by Adj Close / Close so the returned
// bars are dividend and split adjusted. Rows containing "null" are skipped
func Read(r io.Reader) ([]data.Bar, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i := range header {
		idx[strings.TrimSpace(header[i])] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w %q", errMissingColumn, c)
		}
	}
	var bars []data.Bar
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.Join(row, ","), "null") {
			continue
		}
		b, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseRow(row []string, idx map[string]int) (data.Bar, error) {
	var b data.Bar
	date, err := time.Parse(common.SimpleTimeFormat, row[idx["Date"]])
	if err != nil {
		return b, fmt.Errorf("%w: %w", errInvalidRow, err)
	}
	values := make(map[string]decimal.Decimal, len(requiredColumns)-1)
	for _, c := range requiredColumns[1:] {
		v, err := decimal.NewFromString(strings.TrimSpace(row[idx[c]]))
		if err != nil {
			return b, fmt.Errorf("%w: %s %w", errInvalidRow, c, err)
		}
		values[c] = v
	}
	if !values["Close"].IsPositive() {
		return b, fmt.Errorf("%w: non positive close on %s", errInvalidRow, row[idx["Date"]])
	}
	factor := values["Adj Close"].Div(values["Close"])
	return data.Bar{
		Date:   date,
		Open:   values["Open"].Mul(factor),
		High:   values["High"].Mul(factor),
		Low:    values["Low"].Mul(factor),
		Close:  values["Adj Close"],
		Volume: values["Volume"],
	}, nil
}

// ReadFile parses a single CSV file
func ReadFile(path string) ([]data.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorln(log.Data, err)
		}
	}()
	return Read(f)
}

// LoadDirectory reads <dir>/<ASSET>.csv for each asset into a new bar store
func LoadDirectory(dir string, assets []string) (*data.DailyBars, error) {
	bars := data.NewDailyBars()
	for _, a := range assets {
		b, err := ReadFile(filepath.Join(dir, a+".csv"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		if err = bars.Load(a, b); err != nil {
			return nil, err
		}
		log.Infof(log.Data, "loaded %d daily bars for %s from %s", len(b), a, dir)
	}
	return bars, nil
}
