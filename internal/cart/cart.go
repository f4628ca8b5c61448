package cart

import (
	"github.com/google/uuid"
)

const (
	// MinQuantity and MaxQuantity bound every line's quantity.
	MinQuantity = 1
	MaxQuantity = 99
)

// Item is one cart line: a denormalized product snapshot plus quantity.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url,omitempty"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// Cart holds a visitor's selections plus the chosen delivery date and its
// derived tier. Items are unique by product id.
type Cart struct {
	Items          []Item     `json:"items"`
	DeliveryDate   *string    `json:"delivery_date,omitempty"`
	DeliveryTierID *uuid.UUID `json:"delivery_tier_id,omitempty"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []Item{}}
}

func clampQuantity(qty int) int {
	if qty < MinQuantity {
		return MinQuantity
	}
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}

// AddItem upserts by product id: an existing line gains the quantity
// (capped at MaxQuantity), a new line is appended with the clamped quantity.
func (c *Cart) AddItem(item Item, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity + qty)
			return
		}
	}
	item.Quantity = clampQuantity(qty)
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the matching line. No-op when absent.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line;
// anything else is clamped to [MinQuantity, MaxQuantity].
func (c *Cart) UpdateQuantity(productID uuid.UUID, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = clampQuantity(qty)
			return
		}
	}
}

// SetDeliveryDate replaces the delivery date and its derived tier together.
func (c *Cart) SetDeliveryDate(date *string, tierID *uuid.UUID) {
	c.DeliveryDate = date
	c.DeliveryTierID = tierID
}

// Clear resets the cart to its empty state.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.DeliveryDate = nil
	c.DeliveryTierID = nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity sums quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums unit_price x quantity across all lines using the snapshot
// prices held in the cart. Checkout recomputes from the catalog.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}
