package service

import (
	"strings"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

// StyleResolver derives the parent style id for a changed inventory item.
// Implementations must be pure: the same item always resolves to the same
// style id.
type StyleResolver interface {
	Resolve(item domain.InventoryItem) string
}

// DefaultSizeSuffixes is the size token set stripped from the end of a SKU,
// ordered longest first so "2XL" wins over "XL" and "XL" over "L".
var DefaultSizeSuffixes = []string{"2XL", "XL", "L", "M", "S"}

// SuffixResolver groups variants by stripping a known size suffix from the
// SKU. This is a convention over one brand's SKU scheme and is not
// collision-free; deployments with a reliable style column can swap in a
// different resolver.
type SuffixResolver struct {
	suffixes []string
}

// NewSuffixResolver uses DefaultSizeSuffixes.
func NewSuffixResolver() *SuffixResolver {
	return &SuffixResolver{suffixes: DefaultSizeSuffixes}
}

// NewSuffixResolverWithTable uses a custom suffix table, tried in order.
func NewSuffixResolverWithTable(suffixes []string) *SuffixResolver {
	return &SuffixResolver{suffixes: suffixes}
}

// StripSizeSuffix removes the first matching size suffix from the end of
// sku. A match that would leave an empty base is ignored.
func (r *SuffixResolver) StripSizeSuffix(sku string) (string, bool) {
	for _, suffix := range r.suffixes {
		if len(sku) > len(suffix) && strings.HasSuffix(sku, suffix) {
			return sku[:len(sku)-len(suffix)], true
		}
	}
	return sku, false
}

// Resolve prefers the suffix-stripped SKU, then the item's explicit style
// field, then the raw SKU as a single-variant style.
func (r *SuffixResolver) Resolve(item domain.InventoryItem) string {
	if base, ok := r.StripSizeSuffix(item.SKU); ok {
		return base
	}
	if item.StyleID != "" {
		return item.StyleID
	}
	return item.SKU
}
