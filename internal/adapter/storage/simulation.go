package storage

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailbridge/stylesync/internal/core/domain"
	"github.com/retailbridge/stylesync/internal/port"
)

// SimulationRecordSystem is the in-memory stand-in for the record system,
// selected when the configured host is the simulation sentinel. It holds a
// fixed variant table and satisfies the same contract as the live backend.
type SimulationRecordSystem struct {
	mu    sync.Mutex
	items []domain.InventoryItem
}

// NewSimulation seeds the backend with the demo inventory: three styles
// covering a full size run, a partial one, and a single-variant tee.
func NewSimulation() *SimulationRecordSystem {
	now := time.Now()
	hoodiePrice := decimal.RequireFromString("54.95")
	teePrice := decimal.RequireFromString("25.00")
	return NewSimulationWithItems([]domain.InventoryItem{
		{SKU: "NCHOGBLKS", StyleID: "NCHOGBLK", Quantity: 10, Description: "NorCal OG Hoodie Black (Small)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCHOGBLKM", StyleID: "NCHOGBLK", Quantity: 15, Description: "NorCal OG Hoodie Black (Medium)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCHOGBLKL", StyleID: "NCHOGBLK", Quantity: 8, Description: "NorCal OG Hoodie Black (Large)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCHOGBLKXL", StyleID: "NCHOGBLK", Quantity: 4, Description: "NorCal OG Hoodie Black (XL)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCHOGGRYS", StyleID: "NCHOGGRY", Quantity: 5, Description: "NorCal OG Hoodie Grey (Small)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCHOGGRYM", StyleID: "NCHOGGRY", Quantity: 20, Description: "NorCal OG Hoodie Grey (Medium)", Price: hoodiePrice, LastUpdated: now},
		{SKU: "NCTEEBLKM", StyleID: "NCTEEBLK", Quantity: 100, Description: "NorCal Classic Tee Black (M)", Price: teePrice, LastUpdated: now},
	})
}

// NewSimulationWithItems seeds a custom variant table, mainly for tests.
func NewSimulationWithItems(items []domain.InventoryItem) *SimulationRecordSystem {
	s := &SimulationRecordSystem{items: make([]domain.InventoryItem, len(items))}
	copy(s.items, items)
	return s
}

func (s *SimulationRecordSystem) ItemsUpdatedSince(ctx context.Context, since time.Time) ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []domain.InventoryItem
	for _, item := range s.items {
		if item.LastUpdated.After(since) {
			changed = append(changed, item)
		}
	}
	return changed, nil
}

func (s *SimulationRecordSystem) VariantsByStyle(ctx context.Context, styleID string) ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var variants []domain.InventoryItem
	for _, item := range s.items {
		if item.StyleID == styleID {
			variants = append(variants, item)
		}
	}
	// Same ordering as the live backend, so consumers that derive state
	// from the variant list see a stable order on both.
	sort.Slice(variants, func(i, j int) bool { return variants[i].SKU < variants[j].SKU })
	return variants, nil
}

func (s *SimulationRecordSystem) ItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(sku); i >= 0 {
		item := s.items[i]
		return &item, nil
	}
	return nil, nil
}

func (s *SimulationRecordSystem) UpdateItemStock(ctx context.Context, sku string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(sku)
	if i < 0 {
		return false, nil
	}
	s.items[i].Quantity = quantity
	s.items[i].LastUpdated = time.Now()
	return true, nil
}

func (s *SimulationRecordSystem) DecrementItemStock(ctx context.Context, sku string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(sku)
	if i < 0 {
		return false, nil
	}
	if s.items[i].Quantity < quantity {
		return false, port.ErrInsufficientStock
	}
	s.items[i].Quantity -= quantity
	s.items[i].LastUpdated = time.Now()
	return true, nil
}

// SimulateSale touches one random variant as if a register sale happened,
// so demo deployments have changes for the poller to pick up. Returns the
// touched SKU.
func (s *SimulationRecordSystem) SimulateSale() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ""
	}
	i := rand.Intn(len(s.items))
	if s.items[i].Quantity > 0 {
		s.items[i].Quantity--
	}
	s.items[i].LastUpdated = time.Now()
	return s.items[i].SKU
}

// index must be called with the lock held.
func (s *SimulationRecordSystem) index(sku string) int {
	for i, item := range s.items {
		if item.SKU == sku {
			return i
		}
	}
	return -1
}
