package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/retailbridge/stylesync/internal/port"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig
	Catalog      CatalogDBConfig
	Redis        RedisConfig
	RecordSystem RecordSystemConfig
	Sync         SyncConfig
	Webhook      WebhookConfig
	Log          LogConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// CatalogDBConfig holds the catalog Postgres connection settings.
type CatalogDBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN builds the lib/pq connection string.
func (c CatalogDBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings for the decrement queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RecordSystemConfig holds the process-wide default record-system
// connection settings; per-tenant rows in the settings store override
// these. Host "simulation" selects the in-memory backend.
type RecordSystemConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// Defaults converts to the port settings type.
func (c RecordSystemConfig) Defaults() port.RecordSystemSettings {
	return port.RecordSystemSettings{
		Host:     c.Host,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
	}
}

// SyncConfig holds poll-cycle settings.
type SyncConfig struct {
	TenantID     int64
	PollInterval time.Duration
	GraceWindow  time.Duration
	// SimulateSales makes the simulation backend register a fake sale
	// each interval so demo deployments have changes to sync.
	SimulateSales bool
}

// WebhookConfig holds order-ingestion settings.
type WebhookConfig struct {
	// QueueEnabled switches decrements from fire-and-forget to the
	// durable Redis queue.
	QueueEnabled bool
	WorkerCount  int
	MaxAttempts  int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load reads configuration from environment variables with the STYLESYNC
// prefix, applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STYLESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stylesync")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("catalog.host", "localhost")
	v.SetDefault("catalog.port", 5432)
	v.SetDefault("catalog.user", "stylesync")
	v.SetDefault("catalog.password", "stylesync")
	v.SetDefault("catalog.dbname", "stylesync")
	v.SetDefault("catalog.sslmode", "disable")
	v.SetDefault("catalog.maxopenconns", 25)
	v.SetDefault("catalog.maxidleconns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("recordsystem.host", port.SimulationHost)
	v.SetDefault("recordsystem.user", "")
	v.SetDefault("recordsystem.password", "")
	v.SetDefault("recordsystem.database", "")

	v.SetDefault("sync.tenantid", 1)
	v.SetDefault("sync.pollinterval", 30*time.Second)
	v.SetDefault("sync.gracewindow", time.Hour)
	v.SetDefault("sync.simulatesales", false)

	v.SetDefault("webhook.queueenabled", false)
	v.SetDefault("webhook.workercount", 4)
	v.SetDefault("webhook.maxattempts", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Sync.PollInterval <= 0 {
		return fmt.Errorf("sync poll interval must be positive, got %s", c.Sync.PollInterval)
	}
	if c.Sync.GraceWindow < 0 {
		return fmt.Errorf("sync grace window must not be negative, got %s", c.Sync.GraceWindow)
	}
	if c.Webhook.QueueEnabled && c.Webhook.WorkerCount < 1 {
		return fmt.Errorf("webhook worker count must be at least 1, got %d", c.Webhook.WorkerCount)
	}
	if c.RecordSystem.Host == "" {
		return fmt.Errorf("record system host must be set (use %q for the in-memory backend)", port.SimulationHost)
	}
	return nil
}
