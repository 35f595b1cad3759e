package health

import "context"

// CatalogPinger checks catalog store availability.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}

// SettingsChecker checks the persisted-settings overlay availability.
type SettingsChecker interface {
	HealthCheck(ctx context.Context) error
}
