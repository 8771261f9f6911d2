package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailbridge/stylesync/internal/port"
)

func TestPostgresSettings_TenantRowsOverlayDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	defaults := port.RecordSystemSettings{
		Host: port.SimulationHost, User: "default-user", Database: "rms",
	}
	store := NewPostgresSettings(db, defaults)

	mock.ExpectQuery("SELECT key_name, key_value FROM tenant_settings").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"key_name", "key_value"}).
			AddRow("RMS_HOST", "rms.example.test:3306").
			AddRow("RMS_PASSWORD", "secret").
			AddRow("RMS_USER", "")) // empty values keep the default

	cfg, err := store.RecordSystemSettings(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "rms.example.test:3306", cfg.Host)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "default-user", cfg.User)
	assert.Equal(t, "rms", cfg.Database)
	assert.False(t, cfg.Simulation())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettings_NoRowsYieldsDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	defaults := port.RecordSystemSettings{Host: port.SimulationHost}
	store := NewPostgresSettings(db, defaults)

	mock.ExpectQuery("SELECT key_name, key_value FROM tenant_settings").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"key_name", "key_value"}))

	cfg, err := store.RecordSystemSettings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
	assert.True(t, cfg.Simulation())
}

func TestStaticSettings(t *testing.T) {
	store := StaticSettings{Settings: port.RecordSystemSettings{Host: "db:3306"}}

	cfg, err := store.RecordSystemSettings(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Host)
}
