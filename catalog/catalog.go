// Package catalog holds the compiled-in list of sellable items.
package catalog

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAcai     Category = "acai"
	CategorySweets   Category = "doces"
	CategorySnacks   Category = "salgados"
	CategoryBeverage Category = "bebidas"
)

// Categories in display order.
var Categories = []Category{CategoryAcai, CategorySweets, CategorySnacks, CategoryBeverage}

func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Item struct {
	ID        string          `json:"id"         validate:"required"`
	Name      string          `json:"name"       validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required,price"`
	Category  Category        `json:"category"   validate:"required"`
}

// Catalog is immutable once built; lookups never mutate it.
type Catalog struct {
	items []Item
	byID  map[string]int
}

func New(items []Item) *Catalog {
	c := &Catalog{items: make([]Item, len(items)), byID: make(map[string]int, len(items))}
	copy(c.items, items)
	for i, item := range c.items {
		c.byID[item.ID] = i
	}
	return c
}

// Default returns the catalog sold at the register.
func Default() *Catalog {
	return New(defaultItems)
}

func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Catalog) FindByID(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Catalog) ByCategory(category Category) []Item {
	items := []Item{}
	for _, item := range c.items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}
