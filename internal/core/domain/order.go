package domain

// WebOrder is the storefront order-created webhook payload.
type WebOrder struct {
	ID        string      `json:"id"`
	LineItems []OrderLine `json:"line_items"`
}

// OrderLine is one sold line item. SKU may be empty when the storefront
// product was never linked to a record-system item.
type OrderLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
