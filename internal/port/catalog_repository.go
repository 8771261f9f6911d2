package port

import (
	"context"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

// CatalogRepository persists Style aggregates in the storefront catalog
// store. The sync engine creates and replaces; it never deletes.
type CatalogRepository interface {
	// FindStyle looks up a style by (tenant, parent SKU), nil, nil when absent.
	FindStyle(ctx context.Context, tenantID int64, styleSKU string) (*domain.Style, error)

	// CreateStyle inserts a new style record, filling in its generated ID.
	CreateStyle(ctx context.Context, style *domain.Style) error

	// UpdateStyle replaces the name and variant list of an existing style.
	UpdateStyle(ctx context.Context, id string, update domain.StyleUpdate) error
}
