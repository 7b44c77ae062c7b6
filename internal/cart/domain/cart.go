package domain

import "time"

// CartItem carries a snapshot of the product at the moment it was added,
// so the cart survives later catalog edits unchanged.
type CartItem struct {
	ProductID     string    `bson:"product_id" json:"product_id"`
	Name          string    `bson:"name" json:"name"`
	Price         float64   `bson:"price" json:"price"`
	Image         string    `bson:"image,omitempty" json:"image,omitempty"`
	StockQuantity int       `bson:"stock_quantity" json:"stock_quantity"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	Selected      bool      `bson:"selected" json:"selected"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
}

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Add appends the product with quantity 1, or bumps the quantity by 1 when
// the product is already in the cart. New entries start unselected.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	item.Selected = false
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	c.Items = append(c.Items, item)
}

// Remove drops the item. Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity stores any quantity >= 1. Clamping against stock is the
// caller's responsibility, matching how the storefront uses the cart.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) Toggle(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Selected = !c.Items[i].Selected
			return true
		}
	}
	return false
}

func (c *Cart) ToggleAll(selected bool) {
	for i := range c.Items {
		c.Items[i].Selected = selected
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// RemoveSelected drops every selected item, used after a successful checkout.
func (c *Cart) RemoveSelected() {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.Selected {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (c *Cart) SelectedItems() []CartItem {
	var selected []CartItem
	for _, item := range c.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) SelectedTotal() float64 {
	var total float64
	for _, item := range c.Items {
		if item.Selected {
			total += item.Price * float64(item.Quantity)
		}
	}
	return total
}
