package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

func TestStripSizeSuffix(t *testing.T) {
	r := NewSuffixResolver()

	tests := []struct {
		sku     string
		want    string
		matched bool
	}{
		{"NCHOGBLKM", "NCHOGBLK", true},
		{"NCTEEBLKM", "NCTEEBLK", true},
		{"NCHOGBLKS", "NCHOGBLK", true},
		{"NCHOGBLKXL", "NCHOGBLK", true},  // XL wins over trailing L
		{"NCHOGBLK2XL", "NCHOGBLK", true}, // 2XL wins over XL
		{"NCHOGBLK", "NCHOGBLK", false},   // no size token
		{"NCBAG01", "NCBAG01", false},
		{"M", "M", false}, // stripping would leave an empty base
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := r.StripSizeSuffix(tt.sku)
		assert.Equal(t, tt.want, got, "sku %q", tt.sku)
		assert.Equal(t, tt.matched, ok, "sku %q", tt.sku)
	}
}

func TestStripSizeSuffix_Idempotent(t *testing.T) {
	r := NewSuffixResolver()

	for _, sku := range []string{"NCHOGBLKM", "NCHOGBLKXL", "NCTEEBLKM", "NCBAG01"} {
		once, _ := r.StripSizeSuffix(sku)
		twice, _ := r.StripSizeSuffix(once)
		assert.Equal(t, once, twice, "second strip of %q must be stable", sku)
	}
}

func TestResolve_PriorityOrder(t *testing.T) {
	r := NewSuffixResolver()

	// Suffix convention beats the explicit style field.
	got := r.Resolve(domain.InventoryItem{SKU: "NCHOGBLKM", StyleID: "OTHERSTYLE"})
	assert.Equal(t, "NCHOGBLK", got)

	// No suffix match falls back to the explicit style field.
	got = r.Resolve(domain.InventoryItem{SKU: "NCBAG01", StyleID: "NCBAG"})
	assert.Equal(t, "NCBAG", got)

	// Neither: the SKU is its own single-variant style.
	got = r.Resolve(domain.InventoryItem{SKU: "NCBAG01"})
	assert.Equal(t, "NCBAG01", got)
}

func TestResolve_Pure(t *testing.T) {
	r := NewSuffixResolver()
	item := domain.InventoryItem{SKU: "NCHOGGRYS", StyleID: "NCHOGGRY"}

	first := r.Resolve(item)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Resolve(item))
	}
}

func TestCustomSuffixTable(t *testing.T) {
	r := NewSuffixResolverWithTable([]string{"XXL", "XL"})

	got, ok := r.StripSizeSuffix("TEEXXL")
	assert.True(t, ok)
	assert.Equal(t, "TEE", got)

	// M is not in this table.
	_, ok = r.StripSizeSuffix("TEEM")
	assert.False(t, ok)
}
