package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailbridge/stylesync/internal/port"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stylesync", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, port.SimulationHost, cfg.RecordSystem.Host)
	assert.Equal(t, 30*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, time.Hour, cfg.Sync.GraceWindow)
	assert.Equal(t, int64(1), cfg.Sync.TenantID)
	assert.False(t, cfg.Webhook.QueueEnabled)
	assert.Equal(t, 5, cfg.Webhook.MaxAttempts)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STYLESYNC_SYNC_POLLINTERVAL", "10s")
	t.Setenv("STYLESYNC_RECORDSYSTEM_HOST", "rms.internal:3306")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, "rms.internal:3306", cfg.RecordSystem.Host)
	assert.False(t, cfg.RecordSystem.Defaults().Simulation())
}

func TestCatalogDSN(t *testing.T) {
	db := CatalogDBConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "catalog", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=catalog sslmode=disable", db.DSN())
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Sync.PollInterval = 0
	assert.Error(t, cfg.Validate())

	cfg.Sync.PollInterval = time.Second
	cfg.Webhook.QueueEnabled = true
	cfg.Webhook.WorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg.Webhook.WorkerCount = 2
	cfg.RecordSystem.Host = ""
	assert.Error(t, cfg.Validate())

	cfg.RecordSystem.Host = port.SimulationHost
	assert.NoError(t, cfg.Validate())
}
