package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/retailbridge/stylesync/internal/port"
)

// Setting keys recognized in the tenant_settings table. Unset keys fall
// back to the process-wide defaults.
const (
	settingKeyHost     = "RMS_HOST"
	settingKeyUser     = "RMS_USER"
	settingKeyPassword = "RMS_PASSWORD"
	settingKeyDatabase = "RMS_DATABASE"
)

// PostgresSettings resolves per-tenant record-system connection settings
// from the catalog database, overlaying tenant rows on process defaults.
type PostgresSettings struct {
	db       *sql.DB
	defaults port.RecordSystemSettings
}

func NewPostgresSettings(db *sql.DB, defaults port.RecordSystemSettings) *PostgresSettings {
	return &PostgresSettings{db: db, defaults: defaults}
}

func (s *PostgresSettings) RecordSystemSettings(ctx context.Context, tenantID int64) (port.RecordSystemSettings, error) {
	cfg := s.defaults

	rows, err := s.db.QueryContext(ctx, `
		SELECT key_name, key_value FROM tenant_settings WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return cfg, fmt.Errorf("query tenant settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return cfg, fmt.Errorf("scan tenant setting: %w", err)
		}
		if value == "" {
			continue
		}
		switch key {
		case settingKeyHost:
			cfg.Host = value
		case settingKeyUser:
			cfg.User = value
		case settingKeyPassword:
			cfg.Password = value
		case settingKeyDatabase:
			cfg.Database = value
		}
	}
	return cfg, rows.Err()
}

// StaticSettings serves fixed settings for every tenant. Used by tests and
// single-tenant deployments without a settings table.
type StaticSettings struct {
	Settings port.RecordSystemSettings
}

func (s StaticSettings) RecordSystemSettings(ctx context.Context, tenantID int64) (port.RecordSystemSettings, error) {
	return s.Settings, nil
}
