package order

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/replaytrader/replaytrader/common"
	"github.com/shopspring/decimal"
)

// New creates an order with a fresh identifier
func New(portfolioID, asset string, quantity decimal.Decimal, t time.Time) (*Order, error) {
	if asset == "" {
		return nil, fmt.Errorf("%w: order asset unset", common.ErrValidation)
	}
	if quantity.IsZero() {
		return nil, fmt.Errorf("%w: %s %w", common.ErrValidation, asset, errZeroQuantity)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Order{
		ID:          id,
		PortfolioID: portfolioID,
		Asset:       asset,
		Quantity:    quantity,
		Time:        t,
	}, nil
}

// Direction returns the side of the order
func (o *Order) Direction() Side {
	if o.Quantity.IsNegative() {
		return Sell
	}
	return Buy
}

// IsSell reports whether the order reduces the holding
func (o *Order) IsSell() bool {
	return o.Quantity.IsNegative()
}

// String formats the order for logging
func (o *Order) String() string {
	return fmt.Sprintf("%s %s %s portfolio %s at %s",
		o.Direction(),
		o.Quantity.Abs(),
		o.Asset,
		o.PortfolioID,
		o.Time.UTC().Format(common.SimpleTimeFormatWithTime))
}
