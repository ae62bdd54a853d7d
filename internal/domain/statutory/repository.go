package statutory

import "context"

// StatutoryRepository stores one settings row per company.
type StatutoryRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
}
