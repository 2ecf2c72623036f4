package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestCart_AddItemMergesSamePair(t *testing.T) {
	cart := &Cart{ID: "c1"}

	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 250, Quantity: 2})
	line, err := cart.AddItem(CartLine{ProductID: 1, UnitPrice: 250, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, int64(1250), line.TotalPrice)
	assert.Equal(t, "c1", line.CartID)
}

func TestCart_AddItemDefaultsQuantityToOne(t *testing.T) {
	cart := &Cart{ID: "c1"}

	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 300})
	cart.AddItem(CartLine{ProductID: 1})

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, int64(600), cart.Lines[0].TotalPrice)
}

func TestCart_AddItemKeepsPriceAndSellerWhenNotSupplied(t *testing.T) {
	cart := &Cart{ID: "c1"}
	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 100, Quantity: 1, SellerID: uintPtr(7)})

	cart.AddItem(CartLine{ProductID: 1, Quantity: 1})
	assert.Equal(t, int64(100), cart.Lines[0].UnitPrice)
	require.NotNil(t, cart.Lines[0].SellerID)
	assert.Equal(t, uint(7), *cart.Lines[0].SellerID)

	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 90, Quantity: 1, SellerID: uintPtr(8)})
	assert.Equal(t, int64(90), cart.Lines[0].UnitPrice)
	assert.Equal(t, uint(8), *cart.Lines[0].SellerID)
	assert.Equal(t, int64(270), cart.Lines[0].TotalPrice)
}

func TestCart_VariationsAreDistinctLines(t *testing.T) {
	cart := &Cart{ID: "c1"}

	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 100, Quantity: 1})
	cart.AddItem(CartLine{ProductID: 1, VariationOptionID: uintPtr(2), UnitPrice: 120, Quantity: 1})
	cart.AddItem(CartLine{ProductID: 1, VariationOptionID: uintPtr(3), UnitPrice: 130, Quantity: 1})
	cart.AddItem(CartLine{ProductID: 1, VariationOptionID: uintPtr(2), Quantity: 1})

	require.Len(t, cart.Lines, 3)
	assert.Equal(t, 2, cart.FindLine(1, uintPtr(2)).Quantity)
	assert.Equal(t, 1, cart.FindLine(1, nil).Quantity)
	for i, line := range cart.Lines {
		assert.Equal(t, i, line.Position)
	}
}

func TestCart_RemoveItemIsPrecise(t *testing.T) {
	cart := &Cart{ID: "c1"}
	cart.AddItem(CartLine{ProductID: 1, UnitPrice: 100, Quantity: 2})
	cart.AddItem(CartLine{ProductID: 1, VariationOptionID: uintPtr(2), UnitPrice: 100, Quantity: 1})

	removed := cart.RemoveItem(1, nil)

	assert.True(t, removed)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, uint(1), cart.Lines[0].ProductID)
	require.NotNil(t, cart.Lines[0].VariationOptionID)
	assert.Equal(t, uint(2), *cart.Lines[0].VariationOptionID)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, 0, cart.Lines[0].Position)
}

func TestCart_RemoveItemPreservesOrder(t *testing.T) {
	cart := &Cart{ID: "c1"}
	for _, id := range []uint{1, 2, 3, 4} {
		cart.AddItem(CartLine{ProductID: id, UnitPrice: 10, Quantity: 1})
	}

	assert.True(t, cart.RemoveItem(2, nil))
	assert.False(t, cart.RemoveItem(9, nil))

	ids := make([]uint, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ProductID)
	}
	assert.Equal(t, []uint{1, 3, 4}, ids)
}

func TestCart_Totals(t *testing.T) {
	cart := &Cart{ID: "c1"}
	cart.AddItem(CartLine{ProductID: 42, UnitPrice: 1000, Quantity: 3})
	cart.AddItem(CartLine{ProductID: 43, UnitPrice: 150, Quantity: 2})

	assert.Equal(t, int64(3300), cart.Subtotal())
	assert.Equal(t, 5, cart.Count())
	for _, line := range cart.Lines {
		assert.Equal(t, line.UnitPrice*int64(line.Quantity), line.TotalPrice)
	}

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Subtotal())
}

func TestCart_AddItemRefusesQuantityOverLimit(t *testing.T) {
	cart := &Cart{ID: "c1"}
	_, err := cart.AddItem(CartLine{ProductID: 42, UnitPrice: 1000, Quantity: 1})
	require.NoError(t, err)

	_, err = cart.AddItem(CartLine{ProductID: 42, Quantity: math.MaxInt})
	assert.ErrorIs(t, err, ErrQuantityLimit)

	_, err = cart.AddItem(CartLine{ProductID: 42, Quantity: MaxLineQuantity})
	assert.ErrorIs(t, err, ErrQuantityLimit)

	_, err = cart.AddItem(CartLine{ProductID: 7, UnitPrice: 1, Quantity: MaxLineQuantity + 1})
	assert.ErrorIs(t, err, ErrQuantityLimit)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, int64(1000), cart.Lines[0].TotalPrice)
	assert.Equal(t, 1, cart.QuantityOf(42, nil))
	assert.Zero(t, cart.QuantityOf(7, nil))

	line, err := cart.AddItem(CartLine{ProductID: 42, Quantity: MaxLineQuantity - 1})
	require.NoError(t, err)
	assert.Equal(t, MaxLineQuantity, line.Quantity)
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name       string
		price      int64
		discounted int64
		want       int64
	}{
		{"no discount", 1000, 0, 1000},
		{"real discount", 1000, 800, 800},
		{"discount not lower", 1000, 1200, 1000},
		{"discount equal", 1000, 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, PriceDiscounted: tt.discounted}
			assert.Equal(t, tt.want, p.FinalPrice())
		})
	}
}

func TestNewOrderLines(t *testing.T) {
	lines := []CartLine{
		{ProductID: 42, ProductName: "Lamp", UnitPrice: 1000, Quantity: 3, TotalPrice: 3000, SellerID: uintPtr(5)},
	}

	out := NewOrderLines(9, "u1", BuyerTypeCustomer, "USD", lines)

	require.Len(t, out, 1)
	assert.Equal(t, uint(9), out[0].OrderID)
	assert.Equal(t, "Lamp", out[0].ProductTitle)
	assert.Equal(t, int64(3000), out[0].TotalPrice)
	assert.Equal(t, ProductTypePhysical, out[0].ProductType)
	assert.Equal(t, OrderLineStatusPending, out[0].OrderStatus)
	assert.Equal(t, "USD", out[0].Currency)
}
