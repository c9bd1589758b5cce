package portfolio

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/eventtypes/fill"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds the cash
	// balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	errNegativeAmount    = errors.New("amount cannot be negative")
	errAssetUnset        = errors.New("asset unset")
	errZeroQuantity      = errors.New("transaction quantity is zero")
)

// HistoryType names the kind of a cash ledger entry
type HistoryType string

// History entry types
const (
	Subscription     HistoryType = "subscription"
	Withdrawal       HistoryType = "withdrawal"
	AssetTransaction HistoryType = "asset_transaction"
)

// HistoryEvent is one entry in a portfolio's cash ledger
type HistoryEvent struct {
	Time        time.Time
	Type        HistoryType
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Position is the net holding of one asset
type Position struct {
	Asset           string
	Quantity        decimal.Decimal
	AverageCost     decimal.Decimal
	LatestPrice     decimal.Decimal
	RealisedPnL     decimal.Decimal
	TotalCommission decimal.Decimal
	BoughtQuantity  decimal.Decimal
	SoldQuantity    decimal.Decimal
	Updated         time.Time
}

// Portfolio is a segregated cash and holdings ledger. It is owned by a
// single broker and is not safe for concurrent use
type Portfolio struct {
	ID        string
	Name      string
	Currency  string
	Created   time.Time
	cash      decimal.Decimal
	positions map[string]*Position
	closed    []Position
	history   []HistoryEvent
	fills     []fill.Fill
}
