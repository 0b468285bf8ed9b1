package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlaced is published on the order placed channel after a checkout is
// accepted by the order service.
type OrderPlaced struct {
	OrderID     uuid.UUID       `json:"orderId"`
	UserID      uuid.UUID       `json:"userId"`
	StoreID     string          `json:"storeId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int64           `json:"itemCount"`
}
