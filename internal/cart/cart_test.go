package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func item(name string, price int64) Item {
	return Item{
		ProductID: uuid.New(),
		Slug:      name,
		Name:      name,
		UnitPrice: price,
	}
}

func TestAddItem_upsertsByProduct(t *testing.T) {
	c := New()
	banh := item("banh-tet-dau-xanh", 80000)

	c.AddItem(banh, 3)
	c.AddItem(banh, 3)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 6, c.Items[0].Quantity)
}

func TestAddItem_capsAtMax(t *testing.T) {
	c := New()
	banh := item("banh-tet-dau-xanh", 80000)

	c.AddItem(banh, 60)
	c.AddItem(banh, 60)

	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
}

func TestAddItem_zeroQuantityAddsOne(t *testing.T) {
	c := New()
	c.AddItem(item("banh-tet-la-cam", 90000), 0)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateQuantity_clampAndRemove(t *testing.T) {
	c := New()
	banh := item("banh-tet-dau-xanh", 80000)
	c.AddItem(banh, 5)

	c.UpdateQuantity(banh.ProductID, 500)
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)

	c.UpdateQuantity(banh.ProductID, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)

	c.UpdateQuantity(banh.ProductID, 0)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity_unknownProductIsNoop(t *testing.T) {
	c := New()
	c.AddItem(item("banh-tet-dau-xanh", 80000), 1)

	c.UpdateQuantity(uuid.New(), 5)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	first := item("banh-tet-dau-xanh", 80000)
	second := item("banh-tet-la-cam", 90000)
	c.AddItem(first, 1)
	c.AddItem(second, 2)

	c.RemoveItem(first.ProductID)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, second.ProductID, c.Items[0].ProductID)

	// absent product: no-op
	c.RemoveItem(first.ProductID)
	assert.Len(t, c.Items, 1)
}

func TestSetDeliveryDateAndClear(t *testing.T) {
	c := New()
	c.AddItem(item("banh-tet-dau-xanh", 80000), 2)

	date := "2026-02-14"
	tierID := uuid.New()
	c.SetDeliveryDate(&date, &tierID)
	assert.Equal(t, &date, c.DeliveryDate)
	assert.Equal(t, &tierID, c.DeliveryTierID)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.DeliveryDate)
	assert.Nil(t, c.DeliveryTierID)
}

func TestSubtotalAndTotalQuantity(t *testing.T) {
	c := New()
	c.AddItem(item("banh-tet-dau-xanh", 100000), 2)
	c.AddItem(item("banh-tet-la-cam", 90000), 1)

	assert.Equal(t, int64(290000), c.Subtotal())
	assert.Equal(t, 3, c.TotalQuantity())
}
