// Package state holds the cart container: an ordered list of line items
// bound to at most one store, with totals derived from the items.
package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string              `json:"id"`
	StoreID       string              `json:"store_id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
}

// UnitPrice is the discounted price when one is set, else the list price.
func (p Product) UnitPrice() decimal.Decimal {
	if p.DiscountPrice.Valid && !p.DiscountPrice.Decimal.IsZero() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

type CartItem struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           string          `json:"product_id"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int32           `json:"quantity"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

type Cart struct {
	Items       []CartItem      `json:"items"`
	StoreID     *string         `json:"store_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int64           `json:"item_count"`

	PendingOrder *PendingOrder `json:"pending_order,omitempty"`
}

// PendingOrder marks a checkout whose order is being placed.
type PendingOrder struct {
	ID        uuid.UUID `json:"id"`
	ClaimedAt time.Time `json:"claimed_at"`
}

func NewCart() Cart {
	return Cart{Items: []CartItem{}, TotalAmount: decimal.Zero}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Item(itemID uuid.UUID) (CartItem, bool) {
	if i := c.indexOf(itemID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// AddItem adds quantity of product. A product from a different store than
// the one the cart is bound to empties the cart first; storeSwitched reports
// whether that happened to a non-empty cart.
func (c *Cart) AddItem(product Product, quantity int32) (storeSwitched bool) {
	if c.StoreID != nil && *c.StoreID != product.StoreID {
		storeSwitched = !c.IsEmpty()
		c.Items = []CartItem{}
	}
	storeID := product.StoreID
	c.StoreID = &storeID

	added := false
	for i := range c.Items {
		if c.Items[i].ProductID == product.ID {
			c.Items[i].Quantity += quantity
			added = true
			break
		}
	}
	if !added {
		c.Items = append(c.Items, CartItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.UnitPrice(),
			Quantity:  quantity,
		})
	}

	c.recompute()
	return storeSwitched
}

// UpdateQuantity sets the quantity of itemID, removing it when quantity is
// not positive. Unknown ids leave the cart untouched.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int32) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.recompute()
}

func (c *Cart) RemoveItem(itemID uuid.UUID) {
	if i := c.indexOf(itemID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.recompute()
}

// Deduct takes quantity units off itemID and drops the line once nothing is
// left. Unknown ids leave the cart untouched.
func (c *Cart) Deduct(itemID uuid.UUID, quantity int32) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	c.UpdateQuantity(itemID, c.Items[i].Quantity-quantity)
}

// ClaimCheckout reserves the cart for orderID and reports whether the claim
// was granted. A claim older than ttl counts as abandoned and is taken over.
func (c *Cart) ClaimCheckout(orderID uuid.UUID, now time.Time, ttl time.Duration) bool {
	if c.PendingOrder != nil && now.Sub(c.PendingOrder.ClaimedAt) < ttl {
		return false
	}
	c.PendingOrder = &PendingOrder{ID: orderID, ClaimedAt: now}
	return true
}

// ReleaseCheckout drops the claim when it is still held by orderID.
func (c *Cart) ReleaseCheckout(orderID uuid.UUID) {
	if c.PendingOrder != nil && c.PendingOrder.ID == orderID {
		c.PendingOrder = nil
	}
}

func (c *Cart) SetSpecialInstructions(itemID uuid.UUID, instructions string) {
	if i := c.indexOf(itemID); i >= 0 {
		c.Items[i].SpecialInstructions = instructions
	}
}

func (c *Cart) Clear() {
	*c = NewCart()
}

func (c *Cart) indexOf(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	total := decimal.Zero
	var count int64
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
		count += int64(item.Quantity)
	}
	c.TotalAmount = total
	c.ItemCount = count
	if c.IsEmpty() {
		c.StoreID = nil
	}
}
