package service

import (
	"context"

	"rewards/internal/domain/entity"
)

// ServiceConfigStore owns the runtime mock/live switches.
type ServiceConfigStore interface {
	Get() entity.ServiceConfig

	// Update merges patch, persists it, then signals config-changed and,
	// when forceReload is set, reload-requested.
	Update(ctx context.Context, patch entity.ServiceConfigPatch, forceReload bool) (entity.ServiceConfig, error)

	ResetToDefaults(ctx context.Context, forceReload bool) (entity.ServiceConfig, error)

	IsTestMode() bool
}
