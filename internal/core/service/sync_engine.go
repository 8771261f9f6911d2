package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/retailbridge/stylesync/internal/core/domain"
	"github.com/retailbridge/stylesync/internal/port"
)

const (
	placeholderImageURL = "https://via.placeholder.com/400?text=Pending+Photo"
	fallbackStyleName   = "Imported Style"
	defaultSize         = "Standard"
)

// SyncEngine reconciles record-system inventory into catalog Style
// aggregates for one tenant. It owns the watermark marking how far remote
// changes have been processed and a run-lock preventing overlapping cycles
// within this instance.
type SyncEngine struct {
	rms      port.RecordSystem
	catalog  port.CatalogRepository
	resolver StyleResolver
	tenantID int64
	log      *zap.Logger

	running atomic.Bool

	mu        sync.Mutex
	watermark time.Time
}

// NewSyncEngine initializes the watermark to now minus grace, so changes
// made shortly before startup are picked up by the first cycle.
func NewSyncEngine(rms port.RecordSystem, catalog port.CatalogRepository, resolver StyleResolver, tenantID int64, grace time.Duration, log *zap.Logger) *SyncEngine {
	return &SyncEngine{
		rms:       rms,
		catalog:   catalog,
		resolver:  resolver,
		tenantID:  tenantID,
		log:       log,
		watermark: time.Now().Add(-grace),
	}
}

// Watermark returns the current change boundary.
func (e *SyncEngine) Watermark() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.watermark
}

// RunCycle executes one poll cycle. A cycle that finds another one in
// flight skips entirely; there is no queuing. Nothing escapes the cycle:
// adapter failures are logged and the watermark stays put, per-style
// failures are logged and the remaining styles still run. The watermark
// advances to the newest LastUpdated observed whenever the cycle itself
// completes, even with per-style failures inside it.
func (e *SyncEngine) RunCycle(ctx context.Context) {
	if !e.running.CompareAndSwap(false, true) {
		e.log.Info("sync already running, skipping cycle")
		return
	}
	defer e.running.Store(false)

	since := e.Watermark()
	items, err := e.rms.ItemsUpdatedSince(ctx, since)
	if err != nil {
		e.log.Error("change query failed", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}
	e.log.Info("found changed items", zap.Int("count", len(items)))

	styleIDs := make(map[string]struct{})
	maxSeen := since
	for _, item := range items {
		styleIDs[e.resolver.Resolve(item)] = struct{}{}
		if item.LastUpdated.After(maxSeen) {
			maxSeen = item.LastUpdated
		}
	}
	e.log.Info("resolved styles to update", zap.Int("styles", len(styleIDs)))

	for styleID := range styleIDs {
		if err := e.syncStyle(ctx, styleID); err != nil {
			e.log.Error("style sync failed", zap.String("style", styleID), zap.Error(err))
		}
	}

	e.mu.Lock()
	if maxSeen.After(e.watermark) {
		e.watermark = maxSeen
	}
	e.mu.Unlock()
}

// syncStyle fetches the full variant set for one style and upserts the
// catalog record. An existing record has its name and variant list
// replaced wholesale; a new one is created as a draft with a placeholder
// image.
func (e *SyncEngine) syncStyle(ctx context.Context, styleID string) error {
	variants, err := e.rms.VariantsByStyle(ctx, styleID)
	if err != nil {
		return fmt.Errorf("fetch variants: %w", err)
	}
	if len(variants) == 0 {
		e.log.Warn("no variants found for style", zap.String("style", styleID))
		return nil
	}

	summaries := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		summaries = append(summaries, domain.Variant{
			SKU:      v.SKU,
			Size:     sizeFromDescription(v.Description),
			Quantity: v.Quantity,
			Price:    v.Price,
		})
	}

	main := variants[0]
	name := nameFromDescription(main.Description)

	existing, err := e.catalog.FindStyle(ctx, e.tenantID, styleID)
	if err != nil {
		return fmt.Errorf("find style: %w", err)
	}

	if existing != nil {
		e.log.Info("updating style", zap.String("style", styleID), zap.Int("variants", len(summaries)))
		if err := e.catalog.UpdateStyle(ctx, existing.ID, domain.StyleUpdate{Name: name, Variants: summaries}); err != nil {
			return fmt.Errorf("update style: %w", err)
		}
		return nil
	}

	e.log.Info("creating style", zap.String("style", styleID), zap.Int("variants", len(summaries)))
	style := &domain.Style{
		TenantID:    e.tenantID,
		SKU:         styleID,
		Name:        name,
		Description: fmt.Sprintf("Imported Style: %s. Contains %d variants.", styleID, len(variants)),
		Price:       main.Price,
		Status:      domain.StyleStatusDraft,
		ImageURL:    placeholderImageURL,
		Variants:    summaries,
	}
	if err := e.catalog.CreateStyle(ctx, style); err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	return nil
}

// sizeFromDescription pulls the first parenthesized fragment out of a
// variant description, e.g. "OG Hoodie Black (Medium)" -> "Medium".
func sizeFromDescription(desc string) string {
	open := strings.Index(desc, "(")
	if open < 0 {
		return defaultSize
	}
	rest := desc[open+1:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return defaultSize
	}
	return rest[:end]
}

// nameFromDescription takes the text before any parenthesis as the style
// display name.
func nameFromDescription(desc string) string {
	if open := strings.Index(desc, "("); open >= 0 {
		desc = desc[:open]
	}
	name := strings.TrimSpace(desc)
	if name == "" {
		return fallbackStyleName
	}
	return name
}
