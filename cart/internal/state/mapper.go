package state

import (
	"github.com/google/uuid"

	"github.com/Alturino/cityat/cart/pkg/request"
	"github.com/Alturino/cityat/cart/pkg/response"
)

func ProductFromRequest(p request.Product) Product {
	return Product{
		ID:            p.ID,
		StoreID:       p.StoreID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
	}
}

func (c Cart) Response(userID uuid.UUID) response.Cart {
	items := make([]response.CartItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = response.CartItem{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			Name:                item.Name,
			Price:               item.Price,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			Subtotal:            item.Subtotal(),
		}
	}
	return response.Cart{
		UserID:      userID,
		Items:       items,
		StoreID:     c.StoreID,
		TotalAmount: c.TotalAmount,
		ItemCount:   c.ItemCount,
	}
}

// Order builds the order placed for this cart. The cart must not be empty.
func (c Cart) Order(orderID uuid.UUID, userID uuid.UUID) request.CreateOrder {
	items := make([]request.OrderItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = request.OrderItem{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			Name:                item.Name,
			Price:               item.Price,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
	}
	storeID := ""
	if c.StoreID != nil {
		storeID = *c.StoreID
	}
	return request.CreateOrder{
		ID:          orderID,
		UserID:      userID,
		StoreID:     storeID,
		Items:       items,
		TotalAmount: c.TotalAmount,
		ItemCount:   c.ItemCount,
	}
}
