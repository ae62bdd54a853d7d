package statutory

import "context"

type StatutoryService interface {
	// Resolve never reports a missing configuration; it falls back to Defaults.
	Resolve(ctx context.Context, companyID string) (Settings, error)
	GetSettings(ctx context.Context, companyID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error)
}
