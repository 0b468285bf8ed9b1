package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string              `validate:"required"        json:"id"`
	StoreID       string              `validate:"required"        json:"storeId"`
	Name          string              `validate:"required"        json:"name"`
	Price         decimal.Decimal     `validate:"gte=0"           json:"price"`
	DiscountPrice decimal.NullDecimal `validate:"omitempty,gte=0" json:"discountPrice"`
}

type AddCartItem struct {
	Product  Product `validate:"required"       json:"product"`
	Quantity int32   `validate:"required,gte=1" json:"quantity"`
}

// UpdateCartItemQuantity allows zero and negative quantities, which remove
// the item.
type UpdateCartItemQuantity struct {
	Quantity int32 `json:"quantity"`
}

type UpdateSpecialInstructions struct {
	SpecialInstructions string `validate:"max=500" json:"specialInstructions"`
}

// CreateOrder is the body posted to the order service on checkout.
type CreateOrder struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	StoreID     string          `json:"storeId"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int64           `json:"itemCount"`
}

type OrderItem struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           string          `json:"productId"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int32           `json:"quantity"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}
