package results

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid"
	"github.com/replaytrader/replaytrader/database"
	"github.com/replaytrader/replaytrader/eventtypes/equity"
	"github.com/replaytrader/replaytrader/log"
)

const (
	insertRun = `INSERT INTO run (id, strategy, start_date, end_date, initial_cash, final_equity, log, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertEquity     = `INSERT INTO equity_curve (run_id, date, equity) VALUES (?, ?, ?)`
	insertAllocation = `INSERT INTO target_allocation (run_id, date, asset, weight) VALUES (?, ?, ?, ?)`
	insertFill       = `INSERT INTO fill (id, run_id, portfolio_id, asset, quantity, price, commission, filled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectRun = `SELECT id, strategy, start_date, end_date, initial_cash, final_equity, log, created_at
		FROM run WHERE id = ?`
	selectRuns = `SELECT id, strategy, start_date, end_date, initial_cash, final_equity, created_at
		FROM run ORDER BY created_at`
	selectEquity      = `SELECT date, equity FROM equity_curve WHERE run_id = ? ORDER BY date`
	selectAllocations = `SELECT date, asset, weight FROM target_allocation WHERE run_id = ? ORDER BY date, asset`
)

// Insert stores a run and all of its outputs in a single transaction. A nil
// run ID is replaced with a new one
func Insert(ctx context.Context, inst *database.Instance, r *Run) error {
	if r == nil {
		return errNilRun
	}
	db, err := inst.GetSQL()
	if err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		if r.ID, err = uuid.NewV4(); err != nil {
			return err
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = insert(ctx, inst, tx, r); err != nil {
		if errRB := tx.Rollback(); errRB != nil {
			log.Errorln(log.Database, errRB)
		}
		return err
	}
	return tx.Commit()
}

func insert(ctx context.Context, inst *database.Instance, tx *sql.Tx, r *Run) error {
	id := r.ID.String()
	_, err := tx.ExecContext(ctx, inst.Rebind(insertRun),
		id, r.Strategy, r.Start.UTC(), r.End.UTC(), r.InitialCash, r.FinalEquity, r.Log, r.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	for x := range r.Equity {
		_, err = tx.ExecContext(ctx, inst.Rebind(insertEquity), id, r.Equity[x].Date.UTC(), r.Equity[x].Equity)
		if err != nil {
			return fmt.Errorf("equity curve: %w", err)
		}
	}
	for x := range r.Allocations {
		assets := make([]string, 0, len(r.Allocations[x].Weights))
		for a := range r.Allocations[x].Weights {
			assets = append(assets, a)
		}
		sort.Strings(assets)
		for _, a := range assets {
			_, err = tx.ExecContext(ctx, inst.Rebind(insertAllocation), id, r.Allocations[x].Date.UTC(), a, r.Allocations[x].Weights[a])
			if err != nil {
				return fmt.Errorf("target allocation: %w", err)
			}
		}
	}
	for x := range r.Fills {
		f := &r.Fills[x]
		_, err = tx.ExecContext(ctx, inst.Rebind(insertFill),
			f.OrderID.String(), id, f.PortfolioID, f.Asset, f.Quantity, f.Price, f.Commission, f.Time.UTC())
		if err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}
	log.Debugf(log.Database, "stored run %s with %d equity points, %d allocations, %d fills",
		id, len(r.Equity), len(r.Allocations), len(r.Fills))
	return nil
}

// Get loads a run with its equity curve and allocation history
func Get(ctx context.Context, inst *database.Instance, id uuid.UUID) (*Run, error) {
	db, err := inst.GetSQL()
	if err != nil {
		return nil, err
	}
	r := &Run{}
	var rawID string
	err = db.QueryRowContext(ctx, inst.Rebind(selectRun), id.String()).Scan(
		&rawID, &r.Strategy, &r.Start, &r.End, &r.InitialCash, &r.FinalEquity, &r.Log, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if r.ID, err = uuid.FromString(rawID); err != nil {
		return nil, err
	}
	if r.Equity, err = equityCurve(ctx, inst, db, rawID); err != nil {
		return nil, err
	}
	if r.Allocations, err = allocations(ctx, inst, db, rawID); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns stored runs without their series, oldest first
func List(ctx context.Context, inst *database.Instance) ([]Run, error) {
	db, err := inst.GetSQL()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var rawID string
		if err = rows.Scan(&rawID, &r.Strategy, &r.Start, &r.End, &r.InitialCash, &r.FinalEquity, &r.CreatedAt); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.FromString(rawID); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func equityCurve(ctx context.Context, inst *database.Instance, db *sql.DB, id string) ([]equity.Point, error) {
	rows, err := db.QueryContext(ctx, inst.Rebind(selectEquity), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []equity.Point
	for rows.Next() {
		var p equity.Point
		if err = rows.Scan(&p.Date, &p.Equity); err != nil {
			return nil, err
		}
		p.Date = p.Date.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func allocations(ctx context.Context, inst *database.Instance, db *sql.DB, id string) ([]equity.Allocation, error) {
	rows, err := db.QueryContext(ctx, inst.Rebind(selectAllocations), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []equity.Allocation
	for rows.Next() {
		var (
			date   time.Time
			asset  string
			weight float64
		)
		if err = rows.Scan(&date, &asset, &weight); err != nil {
			return nil, err
		}
		date = date.UTC()
		if len(out) == 0 || !out[len(out)-1].Date.Equal(date) {
			out = append(out, equity.Allocation{Date: date, Weights: make(map[string]float64)})
		}
		out[len(out)-1].Weights[asset] = weight
	}
	return out, rows.Err()
}
