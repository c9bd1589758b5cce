package candle

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/log"
)

const (
	insertSQLite = `INSERT OR REPLACE INTO candle (asset, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertPostgres = `INSERT INTO candle (asset, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset, date) DO UPDATE SET
		open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
		close = EXCLUDED.close, volume = EXCLUDED.volume`
	selectSeries = `SELECT date, open, high, low, close, volume FROM candle
		WHERE asset = ? AND date BETWEEN ? AND ? ORDER BY date`
	selectAssets = `SELECT DISTINCT asset FROM candle ORDER BY asset`
)

// Series returns the candles of asset between start and end inclusive
func Series(ctx context.Context, inst *database.Instance, asset string, start, end time.Time) (out Item, err error) {
	if asset == "" || start.IsZero() || end.IsZero() {
		return out, errInvalidInput
	}
	db, err := inst.GetSQL()
	if err != nil {
		return out, err
	}
	query := inst.Rebind(selectSeries)
	inst.Trace(query, asset, start, end)
	rows, err := db.QueryContext(ctx, query, strings.ToUpper(asset), start.UTC(), end.UTC())
	if err != nil {
		return out, err
	}
	defer func() {
		if errC := rows.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()
	for rows.Next() {
		var c Candle
		if err = rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return out, err
		}
		c.Timestamp = c.Timestamp.UTC()
		out.Candles = append(out.Candles, c)
	}
	if err = rows.Err(); err != nil {
		return out, err
	}
	if len(out.Candles) < 1 {
		return out, fmt.Errorf("%w: %s %s - %s", ErrNoCandleDataFound, asset, start, end)
	}
	out.Asset = strings.ToUpper(asset)
	return out, nil
}

// Assets returns every asset with stored candles
func Assets(ctx context.Context, inst *database.Instance) ([]string, error) {
	db, err := inst.GetSQL()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectAssets)
	if err != nil {
		return nil, err
	}
	defer func() {
		if errC := rows.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()
	var assets []string
	for rows.Next() {
		var a string
		if err = rows.Scan(&a); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Insert upserts a series of candles in a single transaction
func Insert(ctx context.Context, inst *database.Instance, in *Item) (uint64, error) {
	if in == nil || len(in.Candles) < 1 {
		return 0, errNoCandleData
	}
	if in.Asset == "" {
		return 0, errInvalidInput
	}
	db, err := inst.GetSQL()
	if err != nil {
		return 0, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	totalInserted, err := insert(ctx, inst, tx, in)
	if err != nil {
		errRB := tx.Rollback()
		if errRB != nil {
			log.Errorln(log.Database, errRB)
		}
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return totalInserted, nil
}

func insert(ctx context.Context, inst *database.Instance, tx *sql.Tx, in *Item) (uint64, error) {
	query := insertSQLite
	if inst.Dialect() == database.DBPostgreSQL {
		query = insertPostgres
	}
	stmt, err := tx.PrepareContext(ctx, inst.Rebind(query))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	var totalInserted uint64
	for x := range in.Candles {
		c := &in.Candles[x]
		_, err = stmt.ExecContext(ctx,
			strings.ToUpper(in.Asset),
			c.Timestamp.UTC(),
			c.Open,
			c.High,
			c.Low,
			c.Close,
			c.Volume)
		if err != nil {
			return 0, err
		}
		if totalInserted < math.MaxUint64 {
			totalInserted++
		}
	}
	return totalInserted, nil
}
