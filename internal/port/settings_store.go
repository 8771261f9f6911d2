package port

import "context"

// SimulationHost is the reserved host value selecting the in-memory
// record-system backend regardless of the other connection fields.
const SimulationHost = "simulation"

// RecordSystemSettings are the per-tenant connection settings for the
// record system.
type RecordSystemSettings struct {
	Host     string
	User     string
	Password string
	Database string
}

// Simulation reports whether the settings select the mock backend.
func (s RecordSystemSettings) Simulation() bool {
	return s.Host == SimulationHost
}

// SettingsStore resolves record-system connection settings for a tenant,
// falling back to process-wide defaults for keys the tenant has not set.
// Settings are resolved freshly on every adapter call, so changes take
// effect without a restart.
type SettingsStore interface {
	RecordSystemSettings(ctx context.Context, tenantID int64) (RecordSystemSettings, error)
}
