package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"go.uber.org/fx"
)

type settingsService struct {
	settings service.ServiceConfigStore
	router   repository.StoreRouter
	journal  journal
}

// SettingsServiceParams holds dependencies for SettingsService, injected by Fx.
type SettingsServiceParams struct {
	fx.In

	Settings service.ServiceConfigStore
	Router   repository.StoreRouter
	Bus      service.SignalBus
	Logger   *slog.Logger
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(params SettingsServiceParams) usecase.SettingsUsecase {
	return &settingsService{
		settings: params.Settings,
		router:   params.Router,
		journal:  newJournal(params.Bus, params.Logger),
	}
}

func (s *settingsService) Get(context.Context) entity.ServiceConfig {
	return s.settings.Get()
}

// Update applies the patch. The audit entry lands in the dataset that is active
// after the change.
func (s *settingsService) Update(ctx context.Context, patch entity.ServiceConfigPatch, forceReload bool, actor string) (entity.ServiceConfig, error) {
	cfg, err := s.settings.Update(ctx, patch, forceReload)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to update service config")
	}

	s.journal.audit(ctx, s.router.Active(ctx), actor, "service-config", "Updated service config", entity.AuditCategorySettings,
		describeServiceConfig(cfg))

	return cfg, nil
}

func (s *settingsService) ResetToDefaults(ctx context.Context, forceReload bool, actor string) (entity.ServiceConfig, error) {
	cfg, err := s.settings.ResetToDefaults(ctx, forceReload)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to reset service config")
	}

	s.journal.audit(ctx, s.router.Active(ctx), actor, "service-config", "Reset service config", entity.AuditCategorySettings,
		describeServiceConfig(cfg))

	return cfg, nil
}

func (s *settingsService) ResetData(ctx context.Context, actor string) (entity.Result[string], error) {
	store := s.router.Active(ctx)

	if err := store.Reset(ctx); err != nil {
		return entity.Result[string]{}, errors.Wrapf(err, "failed to reset %s dataset", store.Name())
	}

	s.journal.audit(ctx, store, actor, store.Name(), "Reset data", entity.AuditCategorySettings, "Dataset restored to fixtures")
	s.journal.publish(service.SignalConfigChanged)

	return entity.Ok(store.Name()), nil
}

func describeServiceConfig(cfg entity.ServiceConfig) string {
	return fmt.Sprintf("mockAuth=%s mockDB=%s mockRedshift=%s",
		strconv.FormatBool(cfg.UseMockAuth),
		strconv.FormatBool(cfg.UseMockDB),
		strconv.FormatBool(cfg.UseMockRedshift),
	)
}
