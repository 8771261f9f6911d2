package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a point-in-time snapshot of one variant row in the
// record system. The record system owns the truth; the sync engine never
// persists these.
type InventoryItem struct {
	SKU         string
	StyleID     string // explicit parent style, may be empty
	Description string
	Quantity    int
	Price       decimal.Decimal
	LastUpdated time.Time
}
