package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

// SettingsUsecase exposes the runtime mock/live switches and data reset
type SettingsUsecase interface {
	Get(ctx context.Context) entity.ServiceConfig
	Update(ctx context.Context, patch entity.ServiceConfigPatch, forceReload bool, actor string) (entity.ServiceConfig, error)
	ResetToDefaults(ctx context.Context, forceReload bool, actor string) (entity.ServiceConfig, error)

	// ResetData discards the active dataset so the next read returns the seed fixtures.
	ResetData(ctx context.Context, actor string) (entity.Result[string], error)
}
