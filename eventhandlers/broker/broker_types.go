package broker

import (
	"errors"
	"time"

	"github.com/replaytrader/replaytrader/data"
	"github.com/replaytrader/replaytrader/eventhandlers/broker/portfolio"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/replaytrader/replaytrader/eventtypes/order"
	"github.com/shopspring/decimal"
)

// Defaults applied to unset settings
const (
	DefaultAccountID = "000001"
	DefaultName      = "Backtest Simulated Broker Account"
	DefaultCurrency  = "USD"
)

var (
	errDuplicatePortfolio = errors.New("portfolio already exists")
	errUnknownPortfolio   = errors.New("portfolio does not exist")
	errNegativeAmount     = errors.New("amount cannot be negative")
	errShortInLongOnly    = errors.New("order would leave a negative holding in a long only account")
	errInsufficientCash   = errors.New("insufficient cash to execute order")
	errPortfolioIDUnset   = errors.New("portfolio id unset")
)

// Settings configures an account
type Settings struct {
	AccountID string
	Name      string
	Currency  string
	// LongOnly rejects orders that would drive a holding negative or spend
	// more cash than a portfolio holds
	LongOnly bool
}

// Rejection records an order that failed and was discarded
type Rejection struct {
	Order  order.Order
	Time   time.Time
	Reason error
}

// Broker owns the account cash pool and its portfolios, and executes or
// queues orders against them. It must be owned by exactly one session and
// is not safe for concurrent use
type Broker struct {
	settings    Settings
	cash        decimal.Decimal
	portfolios  map[string]*portfolio.Portfolio
	openOrders  map[string][]*order.Order
	data        data.Handler
	exchange    exchange.Exchange
	fee         fee.Model
	currentTime time.Time
	rejections  []Rejection
}
