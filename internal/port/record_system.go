package port

import (
	"context"
	"errors"
	"time"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

// ErrInsufficientStock is returned by DecrementItemStock when the item
// exists but holds less stock than the requested decrement. Callers use it
// to tell a retryable shortage apart from an unknown SKU.
var ErrInsufficientStock = errors.New("insufficient stock")

// RecordSystem abstracts the external retail record system. Both the live
// SQL backend and the in-memory simulation backend satisfy this contract
// and must pass the shared contract test suite.
type RecordSystem interface {
	// ItemsUpdatedSince returns items whose LastUpdated is strictly after
	// since. Safe to call with no matches.
	ItemsUpdatedSince(ctx context.Context, since time.Time) ([]domain.InventoryItem, error)

	// VariantsByStyle returns the full current variant set for a style,
	// empty if the style is unknown.
	VariantsByStyle(ctx context.Context, styleID string) ([]domain.InventoryItem, error)

	// ItemBySKU returns nil, nil when the SKU is unknown.
	ItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)

	// UpdateItemStock sets the quantity unconditionally, false if the SKU
	// is unknown.
	UpdateItemStock(ctx context.Context, sku string, quantity int) (bool, error)

	// DecrementItemStock subtracts quantity from current stock. It
	// returns false, nil when the SKU is unknown and false,
	// ErrInsufficientStock when the item holds less than quantity;
	// neither case mutates anything.
	DecrementItemStock(ctx context.Context, sku string, quantity int) (bool, error)
}
