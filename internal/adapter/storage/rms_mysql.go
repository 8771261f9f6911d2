package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/retailbridge/stylesync/internal/core/domain"
	"github.com/retailbridge/stylesync/internal/port"
)

// SQLRecordSystem is the live record-system backend over a MySQL-protocol
// connection. Connection settings are resolved freshly from the settings
// store on every call, so credential changes take effect without a
// restart; pools are keyed by DSN and a pool whose query fails is
// discarded so the next call redials cleanly. When the resolved host is
// the simulation sentinel, calls delegate to an embedded in-memory
// backend.
type SQLRecordSystem struct {
	settings port.SettingsStore
	tenantID int64
	log      *zap.Logger

	simOnce sync.Once
	sim     *SimulationRecordSystem

	mu    sync.Mutex
	pools map[string]*sql.DB
}

func NewSQLRecordSystem(settings port.SettingsStore, tenantID int64, log *zap.Logger) *SQLRecordSystem {
	return &SQLRecordSystem{
		settings: settings,
		tenantID: tenantID,
		log:      log,
		pools:    make(map[string]*sql.DB),
	}
}

// Close tears down every cached connection pool.
func (c *SQLRecordSystem) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for dsn, db := range c.pools {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.pools, dsn)
	}
	return errors.Join(errs...)
}

func (c *SQLRecordSystem) ItemsUpdatedSince(ctx context.Context, since time.Time) ([]domain.InventoryItem, error) {
	cfg, err := c.settings.RecordSystemSettings(ctx, c.tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.Simulation() {
		return c.simulation().ItemsUpdatedSince(ctx, since)
	}

	db, dsn, err := c.pool(cfg)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT sku, style_id, description, quantity, price, last_updated
		FROM items WHERE last_updated > ?`, since)
	if err != nil {
		c.discard(dsn)
		return nil, fmt.Errorf("query changed items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (c *SQLRecordSystem) VariantsByStyle(ctx context.Context, styleID string) ([]domain.InventoryItem, error) {
	cfg, err := c.settings.RecordSystemSettings(ctx, c.tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.Simulation() {
		return c.simulation().VariantsByStyle(ctx, styleID)
	}

	db, dsn, err := c.pool(cfg)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT sku, style_id, description, quantity, price, last_updated
		FROM items WHERE style_id = ? ORDER BY sku`, styleID)
	if err != nil {
		c.discard(dsn)
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (c *SQLRecordSystem) ItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	cfg, err := c.settings.RecordSystemSettings(ctx, c.tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.Simulation() {
		return c.simulation().ItemBySKU(ctx, sku)
	}

	db, dsn, err := c.pool(cfg)
	if err != nil {
		return nil, err
	}

	var item domain.InventoryItem
	var styleID sql.NullString
	err = db.QueryRowContext(ctx, `
		SELECT sku, style_id, description, quantity, price, last_updated
		FROM items WHERE sku = ?`, sku,
	).Scan(&item.SKU, &styleID, &item.Description, &item.Quantity, &item.Price, &item.LastUpdated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		c.discard(dsn)
		return nil, fmt.Errorf("query item: %w", err)
	}

	item.StyleID = styleID.String
	return &item, nil
}

func (c *SQLRecordSystem) UpdateItemStock(ctx context.Context, sku string, quantity int) (bool, error) {
	cfg, err := c.settings.RecordSystemSettings(ctx, c.tenantID)
	if err != nil {
		return false, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.Simulation() {
		return c.simulation().UpdateItemStock(ctx, sku, quantity)
	}

	db, dsn, err := c.pool(cfg)
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE items SET quantity = ?, last_updated = NOW()
		WHERE sku = ?`, quantity, sku)
	if err != nil {
		c.discard(dsn)
		return false, fmt.Errorf("update stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// DecrementItemStock is a single conditional update rather than a
// read-modify-write, so concurrent decrements on the same SKU cannot lose
// one another and stock never goes negative.
func (c *SQLRecordSystem) DecrementItemStock(ctx context.Context, sku string, quantity int) (bool, error) {
	cfg, err := c.settings.RecordSystemSettings(ctx, c.tenantID)
	if err != nil {
		return false, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.Simulation() {
		return c.simulation().DecrementItemStock(ctx, sku, quantity)
	}

	db, dsn, err := c.pool(cfg)
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE items SET quantity = quantity - ?, last_updated = NOW()
		WHERE sku = ? AND quantity >= ?`, quantity, sku, quantity)
	if err != nil {
		c.discard(dsn)
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		return true, nil
	}

	// No row matched: either the SKU does not exist or the item holds
	// less than the requested quantity. A follow-up lookup tells them
	// apart.
	item, err := c.ItemBySKU(ctx, sku)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	return false, port.ErrInsufficientStock
}

// Simulator exposes the embedded simulation backend so demo deployments
// can drive fake register sales against it.
func (c *SQLRecordSystem) Simulator() *SimulationRecordSystem {
	return c.simulation()
}

func (c *SQLRecordSystem) simulation() *SimulationRecordSystem {
	c.simOnce.Do(func() {
		c.log.Info("record system host set to simulation, using in-memory backend")
		c.sim = NewSimulation()
	})
	return c.sim
}

// pool returns the cached pool for the resolved settings, creating it
// lazily. sql.Open does not dial; a broken DSN surfaces on first query and
// discard drops the entry so the next call retries fresh.
func (c *SQLRecordSystem) pool(cfg port.RecordSystemSettings) (*sql.DB, string, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Database)

	c.mu.Lock()
	defer c.mu.Unlock()

	if db, ok := c.pools[dsn]; ok {
		return db, dsn, nil
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open record system connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	c.log.Info("opened record system pool", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	c.pools[dsn] = db
	return db, dsn, nil
}

func (c *SQLRecordSystem) discard(dsn string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if db, ok := c.pools[dsn]; ok {
		db.Close()
		delete(c.pools, dsn)
		c.log.Warn("discarded record system pool after failure")
	}
}

func scanItems(rows *sql.Rows) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		var styleID sql.NullString
		if err := rows.Scan(&item.SKU, &styleID, &item.Description, &item.Quantity, &item.Price, &item.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.StyleID = styleID.String
		items = append(items, item)
	}
	return items, rows.Err()
}
