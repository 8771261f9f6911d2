package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StyleStatus string

const (
	StyleStatusDraft     StyleStatus = "draft"
	StyleStatusPublished StyleStatus = "published"
)

// Variant is the catalog-side summary of one size/color SKU inside a style.
// Field order and tags are stable so a re-serialized variant list is
// byte-identical for an unchanged input set.
type Variant struct {
	SKU      string          `json:"sku"`
	Size     string          `json:"size"`
	Quantity int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
}

// Style is the parent product grouping a run of variant SKUs. The catalog
// store owns these records; the sync engine creates them as drafts and
// replaces their variant list wholesale on every relevant cycle.
type Style struct {
	ID          string
	TenantID    int64
	SKU         string // parent style SKU, unique per tenant
	Name        string
	Description string
	Price       decimal.Decimal
	Status      StyleStatus
	ImageURL    string
	RemoteID    string // storefront catalog id once published, may be empty
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalStock sums quantity across all variants.
func (s *Style) TotalStock() int {
	total := 0
	for _, v := range s.Variants {
		total += v.Quantity
	}
	return total
}

// StyleUpdate carries the fields replaced on an existing style during an
// upsert. Replacement is wholesale, not a field merge.
type StyleUpdate struct {
	Name     string
	Variants []Variant
}
