package fill

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Fill details an executed order
type Fill struct {
	OrderID     uuid.UUID       `json:"order-id"`
	PortfolioID string          `json:"portfolio-id"`
	Asset       string          `json:"asset"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Commission  decimal.Decimal `json:"commission"`
	Time        time.Time       `json:"time"`
}
