package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/pos/internal/common/validate"
)

func TestDefault_ItemsAreWellFormed(t *testing.T) {
	v := validate.New()
	seen := map[string]bool{}
	for _, item := range Default().Items() {
		assert.False(t, seen[item.ID], "duplicate item id=%s", item.ID)
		seen[item.ID] = true
		assert.NoError(t, v.Struct(item), "item id=%s", item.ID)
		assert.True(t, item.Category.Valid(), "item id=%s", item.ID)
	}
	assert.Len(t, seen, 20)
}

func TestFindByID(t *testing.T) {
	c := Default()

	item, ok := c.FindByID("4")
	require.True(t, ok)
	assert.Equal(t, "Bombom Unitário", item.Name)
	assert.True(t, decimal.RequireFromString("2.50").Equal(item.UnitPrice))

	_, ok = c.FindByID("999")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	c := Default()
	total := 0
	for _, category := range Categories {
		items := c.ByCategory(category)
		for _, item := range items {
			assert.Equal(t, category, item.Category)
		}
		total += len(items)
	}
	assert.Equal(t, len(c.Items()), total)
	assert.Empty(t, c.ByCategory(Category("pizza")))
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "changed"

	item, ok := c.FindByID(items[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", item.Name)
}
