package order

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order, derived from the sign of its quantity
type Side string

// Order sides
const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

var errZeroQuantity = errors.New("order quantity cannot be zero")

// Order is an instruction to change a portfolio's holding of one asset by a
// signed quantity. Positive quantities buy and negative quantities sell
type Order struct {
	ID          uuid.UUID
	PortfolioID string
	Asset       string
	Quantity    decimal.Decimal
	Time        time.Time
}
