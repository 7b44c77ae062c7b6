package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID string, price float64, quantity int, selected bool) CartItem {
	return CartItem{
		ProductID: productID,
		Name:      "product " + productID,
		Price:     price,
		Quantity:  quantity,
		Selected:  selected,
		AddedAt:   time.Now(),
	}
}

func TestAdd_NewItemStartsUnselectedWithQuantityOne(t *testing.T) {
	cart := &Cart{UserID: "u1"}

	cart.Add(CartItem{ProductID: "p1", Price: 10, Quantity: 7, Selected: true})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.False(t, cart.Items[0].Selected)
	assert.False(t, cart.Items[0].AddedAt.IsZero())
}

func TestAdd_ExistingItemIncrementsQuantity(t *testing.T) {
	cart := &Cart{UserID: "u1", Items: []CartItem{item("p1", 10, 2, true)}}

	cart.Add(CartItem{ProductID: "p1", Price: 10})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	// Re-adding must not reset the selection
	assert.True(t, cart.Items[0].Selected)
}

func TestSetQuantity(t *testing.T) {
	cart := &Cart{Items: []CartItem{item("p1", 10, 2, false)}}

	assert.True(t, cart.SetQuantity("p1", 9))
	assert.Equal(t, 9, cart.Items[0].Quantity)

	assert.False(t, cart.SetQuantity("p1", 0), "quantity below 1 is rejected")
	assert.Equal(t, 9, cart.Items[0].Quantity)

	assert.False(t, cart.SetQuantity("missing", 3))
}

func TestRemove_AbsentProductIsNoOp(t *testing.T) {
	cart := &Cart{Items: []CartItem{item("p1", 10, 1, false)}}

	cart.Remove("missing")
	assert.Len(t, cart.Items, 1)

	cart.Remove("p1")
	assert.Empty(t, cart.Items)
}

func TestToggleAll(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		item("p1", 10, 1, false),
		item("p2", 20, 1, true),
	}}

	cart.ToggleAll(true)
	for _, it := range cart.Items {
		assert.True(t, it.Selected)
	}

	cart.ToggleAll(false)
	for _, it := range cart.Items {
		assert.False(t, it.Selected)
	}
}

func TestRemoveSelected_KeepsUnselected(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		item("p1", 10, 1, true),
		item("p2", 20, 1, false),
		item("p3", 30, 1, true),
	}}

	cart.RemoveSelected()

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestTotals(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		item("p1", 10.50, 2, true),  // 21.00 selected
		item("p2", 5.25, 4, false),  // 21.00 unselected
		item("p3", 100.00, 1, true), // 100.00 selected
	}}

	assert.InDelta(t, 142.00, cart.Total(), 0.001)
	assert.InDelta(t, 121.00, cart.SelectedTotal(), 0.001)

	selected := cart.SelectedItems()
	require.Len(t, selected, 2)
	assert.Equal(t, "p1", selected[0].ProductID)
	assert.Equal(t, "p3", selected[1].ProductID)
}

func TestTotals_EmptyCart(t *testing.T) {
	cart := &Cart{}
	assert.Zero(t, cart.Total())
	assert.Zero(t, cart.SelectedTotal())
	assert.Empty(t, cart.SelectedItems())
}
