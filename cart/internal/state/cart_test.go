package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(id, storeID string, price int64) Product {
	return Product{ID: id, StoreID: storeID, Name: "product " + id, Price: decimal.NewFromInt(price)}
}

type addition struct {
	product  Product
	quantity int32
}

func assertTotals(t *testing.T, cart Cart, totalAmount string, itemCount int64) {
	t.Helper()
	assert.EqualValues(t, totalAmount, cart.TotalAmount.String(), "totalAmount should be equal to expected")
	assert.EqualValues(t, itemCount, cart.ItemCount, "itemCount should be equal to expected")
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name                  string
		adds                  []addition
		expectedItems         int
		expectedStore         string
		expectedTotal         string
		expectedCount         int64
		expectedStoreSwitched bool
	}{
		{
			name: "given products from one store should sum quantities and amounts",
			adds: []addition{
				{product("a", "x", 50), 2},
				{product("b", "x", 30), 1},
				{product("c", "x", 5), 4},
			},
			expectedItems: 3,
			expectedStore: "x",
			expectedTotal: "150",
			expectedCount: 7,
		},
		{
			name: "given same product twice should merge into one line",
			adds: []addition{
				{product("a", "x", 50), 2},
				{product("a", "x", 50), 3},
			},
			expectedItems: 1,
			expectedStore: "x",
			expectedTotal: "250",
			expectedCount: 5,
		},
		{
			name: "given product from another store should keep only the new item",
			adds: []addition{
				{product("a", "x", 50), 2},
				{product("b", "y", 30), 1},
			},
			expectedItems:         1,
			expectedStore:         "y",
			expectedTotal:         "30",
			expectedCount:         1,
			expectedStoreSwitched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			storeSwitched := false
			for _, add := range tt.adds {
				storeSwitched = cart.AddItem(add.product, add.quantity)
			}

			assert.Len(t, cart.Items, tt.expectedItems)
			assert.NotNil(t, cart.StoreID)
			assert.EqualValues(t, tt.expectedStore, *cart.StoreID)
			assert.EqualValues(t, tt.expectedStoreSwitched, storeSwitched)
			assertTotals(t, cart, tt.expectedTotal, tt.expectedCount)
		})
	}
}

func TestAddItemUsesDiscountPrice(t *testing.T) {
	discounted := product("a", "x", 50)
	discounted.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(40))
	zeroDiscount := product("b", "x", 30)
	zeroDiscount.DiscountPrice = decimal.NewNullDecimal(decimal.Zero)

	cart := NewCart()
	cart.AddItem(discounted, 1)
	cart.AddItem(zeroDiscount, 1)

	assert.EqualValues(t, "40", cart.Items[0].Price.String())
	assert.EqualValues(t, "30", cart.Items[1].Price.String())
	assertTotals(t, cart, "70", 2)
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("c", "x", 1), 1)
	cart.AddItem(product("a", "x", 1), 1)
	cart.AddItem(product("b", "x", 1), 1)
	cart.AddItem(product("a", "x", 1), 1)

	ids := []string{}
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	assert.EqualValues(t, []string{"c", "a", "b"}, ids)
}

func TestStoreSwitchExample(t *testing.T) {
	cart := NewCart()

	cart.AddItem(product("productA", "storeX", 50), 2)
	assertTotals(t, cart, "100", 2)

	cart.AddItem(product("productB", "storeY", 30), 1)
	assert.Len(t, cart.Items, 1)
	assert.EqualValues(t, "productB", cart.Items[0].ProductID)
	assertTotals(t, cart, "30", 1)
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int32
		unknownItem   bool
		expectedItems int
		expectedTotal string
		expectedCount int64
		expectedStore bool
	}{
		{name: "given positive quantity should set quantity", quantity: 5, expectedItems: 2, expectedTotal: "280", expectedCount: 6, expectedStore: true},
		{name: "given zero quantity should remove item", quantity: 0, expectedItems: 1, expectedTotal: "30", expectedCount: 1, expectedStore: true},
		{name: "given negative quantity should remove item", quantity: -3, expectedItems: 1, expectedTotal: "30", expectedCount: 1, expectedStore: true},
		{name: "given unknown item should leave cart untouched", quantity: 9, unknownItem: true, expectedItems: 2, expectedTotal: "130", expectedCount: 3, expectedStore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			cart.AddItem(product("a", "x", 50), 2)
			cart.AddItem(product("b", "x", 30), 1)

			itemID := cart.Items[0].ID
			if tt.unknownItem {
				itemID = uuid.New()
			}
			cart.UpdateQuantity(itemID, tt.quantity)

			assert.Len(t, cart.Items, tt.expectedItems)
			assert.EqualValues(t, tt.expectedStore, cart.StoreID != nil)
			assertTotals(t, cart, tt.expectedTotal, tt.expectedCount)
		})
	}
}

func TestUpdateQuantityToZeroOnLastItemClearsStore(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 2)

	cart.UpdateQuantity(cart.Items[0].ID, 0)

	assert.True(t, cart.IsEmpty())
	assert.Nil(t, cart.StoreID)
	assertTotals(t, cart, "0", 0)
}

func TestRemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 2)
	cart.AddItem(product("b", "x", 30), 1)

	cart.RemoveItem(cart.Items[0].ID)
	assert.Len(t, cart.Items, 1)
	assert.EqualValues(t, "x", *cart.StoreID)
	assertTotals(t, cart, "30", 1)

	cart.RemoveItem(uuid.New())
	assert.Len(t, cart.Items, 1)

	cart.RemoveItem(cart.Items[0].ID)
	assert.True(t, cart.IsEmpty())
	assert.Nil(t, cart.StoreID)
	assertTotals(t, cart, "0", 0)
}

func TestClear(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 2)

	cart.Clear()

	assert.EqualValues(t, NewCart(), cart)
}

func TestDeduct(t *testing.T) {
	tests := []struct {
		name          string
		topUp         int32
		deduct        int32
		unknownItem   bool
		expectedItems int
		expectedTotal string
		expectedCount int64
	}{
		{name: "given ordered quantity only should remove line", deduct: 2, expectedItems: 1, expectedTotal: "30", expectedCount: 1},
		{name: "given units added after ordering should keep them", topUp: 3, deduct: 2, expectedItems: 2, expectedTotal: "180", expectedCount: 4},
		{name: "given more than held should remove line", deduct: 5, expectedItems: 1, expectedTotal: "30", expectedCount: 1},
		{name: "given unknown item should leave cart untouched", deduct: 2, unknownItem: true, expectedItems: 2, expectedTotal: "130", expectedCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			cart.AddItem(product("a", "x", 50), 2)
			cart.AddItem(product("b", "x", 30), 1)
			if tt.topUp > 0 {
				cart.AddItem(product("a", "x", 50), tt.topUp)
			}

			itemID := cart.Items[0].ID
			if tt.unknownItem {
				itemID = uuid.New()
			}
			cart.Deduct(itemID, tt.deduct)

			assert.Len(t, cart.Items, tt.expectedItems)
			assertTotals(t, cart, tt.expectedTotal, tt.expectedCount)
		})
	}
}

func TestClaimCheckout(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 1)

	assert.True(t, cart.ClaimCheckout(first, now, time.Minute))
	assert.False(t, cart.ClaimCheckout(second, now.Add(time.Second), time.Minute))
	assert.EqualValues(t, first, cart.PendingOrder.ID)

	cart.ReleaseCheckout(second)
	assert.NotNil(t, cart.PendingOrder, "release by another order should keep the claim")

	cart.ReleaseCheckout(first)
	assert.Nil(t, cart.PendingOrder)
	assert.True(t, cart.ClaimCheckout(second, now, time.Minute))

	assert.True(t, cart.ClaimCheckout(first, now.Add(2*time.Minute), time.Minute), "stale claim should be taken over")
	assert.EqualValues(t, first, cart.PendingOrder.ID)
}

func TestSetSpecialInstructions(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 1)
	itemID := cart.Items[0].ID

	cart.SetSpecialInstructions(itemID, "no onions")
	cart.SetSpecialInstructions(uuid.New(), "ignored")

	item, ok := cart.Item(itemID)
	assert.True(t, ok)
	assert.EqualValues(t, "no onions", item.SpecialInstructions)
	assertTotals(t, cart, "50", 1)
}

func TestCartSnapshotRoundTrip(t *testing.T) {
	cart := NewCart()
	cart.AddItem(product("a", "x", 50), 2)

	raw, err := json.Marshal(cart)
	assert.NoError(t, err)

	decoded := NewCart()
	err = json.Unmarshal(raw, &decoded)
	assert.NoError(t, err)

	assert.EqualValues(t, cart.Items[0].ID, decoded.Items[0].ID)
	assert.EqualValues(t, "x", *decoded.StoreID)
	assertTotals(t, decoded, "100", 2)
}
