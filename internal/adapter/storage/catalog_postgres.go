package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/retailbridge/stylesync/internal/core/domain"
)

// PostgresCatalog persists Style aggregates in the catalog database.
// Variant lists are stored as a JSON column; json.Marshal is deterministic
// for a given variant slice, so re-upserting an unchanged set writes a
// byte-identical value.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) FindStyle(ctx context.Context, tenantID int64, styleSKU string) (*domain.Style, error) {
	var style domain.Style
	var remoteID sql.NullString
	var variantsJSON []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, sku, name, description, price, status, image_url, remote_id, variants, created_at, updated_at
		FROM styles WHERE tenant_id = $1 AND sku = $2`, tenantID, styleSKU,
	).Scan(&style.ID, &style.TenantID, &style.SKU, &style.Name, &style.Description,
		&style.Price, &style.Status, &style.ImageURL, &remoteID, &variantsJSON,
		&style.CreatedAt, &style.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query style: %w", err)
	}

	style.RemoteID = remoteID.String
	if len(variantsJSON) > 0 {
		if err := json.Unmarshal(variantsJSON, &style.Variants); err != nil {
			return nil, fmt.Errorf("decode variants: %w", err)
		}
	}
	return &style, nil
}

func (c *PostgresCatalog) CreateStyle(ctx context.Context, style *domain.Style) error {
	if style.ID == "" {
		style.ID = uuid.NewString()
	}
	variantsJSON, err := json.Marshal(style.Variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO styles (id, tenant_id, sku, name, description, price, status, image_url, remote_id, variants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, NOW(), NOW())`,
		style.ID, style.TenantID, style.SKU, style.Name, style.Description,
		style.Price, style.Status, style.ImageURL, style.RemoteID, variantsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert style: %w", err)
	}
	return nil
}

func (c *PostgresCatalog) UpdateStyle(ctx context.Context, id string, update domain.StyleUpdate) error {
	variantsJSON, err := json.Marshal(update.Variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}

	result, err := c.db.ExecContext(ctx, `
		UPDATE styles SET name = $1, variants = $2, updated_at = NOW()
		WHERE id = $3`, update.Name, variantsJSON, id)
	if err != nil {
		return fmt.Errorf("update style: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("style %s not found", id)
	}
	return nil
}
