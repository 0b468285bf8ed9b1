package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	UserID      uuid.UUID       `json:"userId"`
	Items       []CartItem      `json:"items"`
	StoreID     *string         `json:"storeId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int64           `json:"itemCount"`
}

type CartItem struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           string          `json:"productId"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int32           `json:"quantity"`
	SpecialInstructions string          `json:"specialInstructions"`
	Subtotal            decimal.Decimal `json:"subtotal"`
}

type Checkout struct {
	OrderID     uuid.UUID       `json:"orderId"`
	StoreID     string          `json:"storeId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int64           `json:"itemCount"`
}
