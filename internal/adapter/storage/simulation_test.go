package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

func TestSimulation_SeededFixture(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulation()

	variants, err := sim.VariantsByStyle(ctx, "NCHOGBLK")
	require.NoError(t, err)
	require.Len(t, variants, 4, "full hoodie size run")
	for i := 1; i < len(variants); i++ {
		assert.Less(t, variants[i-1].SKU, variants[i].SKU, "variants come back in SKU order")
	}

	tee, err := sim.ItemBySKU(ctx, "NCTEEBLKM")
	require.NoError(t, err)
	require.NotNil(t, tee)
	assert.Equal(t, 100, tee.Quantity)
}

func TestSimulation_SimulateSaleIsVisibleToPolling(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulation()
	boundary := time.Now()

	time.Sleep(5 * time.Millisecond)
	sku := sim.SimulateSale()
	require.NotEmpty(t, sku)

	changed, err := sim.ItemsUpdatedSince(ctx, boundary)
	require.NoError(t, err)
	require.NotEmpty(t, changed)

	found := false
	for _, item := range changed {
		if item.SKU == sku {
			found = true
		}
	}
	assert.True(t, found, "the sold variant must show up as changed")
}

// TestReadModifyWriteDecrement_LosesUpdate documents the lost-update race
// of the legacy decrement path: two callers that each read the quantity
// and write back their own computation overwrite one another. The
// interleaving is played out sequentially so the loss is deterministic.
// DecrementItemStock exists precisely to avoid this.
func TestReadModifyWriteDecrement_LosesUpdate(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulationWithItems([]domain.InventoryItem{
		{SKU: "RACE-1", Quantity: 10, Description: "Race Demo", LastUpdated: time.Now()},
	})

	first, err := sim.ItemBySKU(ctx, "RACE-1")
	require.NoError(t, err)
	second, err := sim.ItemBySKU(ctx, "RACE-1")
	require.NoError(t, err)

	// Caller A sells 3, caller B sells 4, both computed from the same read.
	_, err = sim.UpdateItemStock(ctx, "RACE-1", first.Quantity-3)
	require.NoError(t, err)
	_, err = sim.UpdateItemStock(ctx, "RACE-1", second.Quantity-4)
	require.NoError(t, err)

	final, err := sim.ItemBySKU(ctx, "RACE-1")
	require.NoError(t, err)
	assert.Equal(t, 6, final.Quantity, "caller A's decrement is lost")

	// The atomic path applies both.
	sim2 := NewSimulationWithItems([]domain.InventoryItem{
		{SKU: "RACE-2", Quantity: 10, Description: "Race Demo", LastUpdated: time.Now()},
	})
	_, err = sim2.DecrementItemStock(ctx, "RACE-2", 3)
	require.NoError(t, err)
	_, err = sim2.DecrementItemStock(ctx, "RACE-2", 4)
	require.NoError(t, err)

	final, err = sim2.ItemBySKU(ctx, "RACE-2")
	require.NoError(t, err)
	assert.Equal(t, 3, final.Quantity)
}

func TestSimulation_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulation()

	item, err := sim.ItemBySKU(ctx, "NCHOGBLKS")
	require.NoError(t, err)
	item.Quantity = 9999

	again, err := sim.ItemBySKU(ctx, "NCHOGBLKS")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Quantity, "mutating a snapshot must not touch the table")
}
