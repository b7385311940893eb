package impl

import (
	"context"
	"testing"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/service"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/usecase"
	"rewards/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_ResetDataRestoresFixtures(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSettingsService(SettingsServiceParams{Settings: env.settings, Router: env.router, Bus: env.bus, Logger: env.logger})
	ctx := context.Background()
	changed := env.collect(t, service.SignalConfigChanged)

	res, err := env.points().AdjustPoints(ctx, usecase.AdjustPointsInput{UserID: seed.MockDriverJane, Amount: 100, Reason: "x"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 5500, balanceOf(t, env, seed.MockDriverJane))

	reset, err := svc.ResetData(ctx, "Platform Admin")
	require.NoError(t, err)
	require.True(t, reset.Success)
	assert.Equal(t, "mock", reset.Data)
	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))

	logs, err := env.router.Active(ctx).AuditLogs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Reset data", logs[0].Action)

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("config-changed was not published")
	}
}

func TestSettingsService_UpdateAudits(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSettingsService(SettingsServiceParams{Settings: env.settings, Router: env.router, Bus: env.bus, Logger: env.logger})
	ctx := context.Background()

	cfg, err := svc.Update(ctx, entity.ServiceConfigPatch{UseMockRedshift: util.Ptr(false)}, false, "Platform Admin")
	require.NoError(t, err)
	assert.False(t, cfg.UseMockRedshift)
	assert.True(t, svc.Get(ctx).IsTestMode())

	logs, err := env.router.Active(ctx).AuditLogs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditCategorySettings, logs[0].Category)
	assert.Contains(t, logs[0].Details, "mockRedshift=false")

	cfg, err = svc.ResetToDefaults(ctx, false, "Platform Admin")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultServiceConfig(), cfg)
}

func TestReportService_PointsSummary(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReportService(ReportServiceParams{Router: env.router, Settings: env.settings})
	ctx := context.Background()

	report, err := svc.PointsSummary(ctx, seed.MockSponsorSwift, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "mock", report.Warehouse)
	require.Len(t, report.Drivers, 1)

	jane := report.Drivers[0]
	assert.Equal(t, seed.MockDriverJane, jane.UserID)
	assert.Equal(t, 750, jane.Awarded)
	assert.Equal(t, 800, jane.Purchased)
	assert.Zero(t, jane.Refunded)
	assert.Equal(t, 5400, jane.Balance)

	_, err = env.settings.Update(ctx, entity.ServiceConfigPatch{UseMockRedshift: util.Ptr(false)}, false)
	require.NoError(t, err)

	report, err = svc.PointsSummary(ctx, "", seed.Mock().Transactions[0].Date, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "redshift", report.Warehouse)
	assert.Len(t, report.Drivers, 3)

	for _, d := range report.Drivers {
		if d.UserID == seed.MockDriverJane {
			assert.Zero(t, d.Awarded)
			assert.Equal(t, 800, d.Purchased)
		}
	}
}

func TestAuditService_ListLogs(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuditService(env.router)
	ctx := context.Background()

	logs, err := svc.ListLogs(ctx, usecase.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = svc.ListLogs(ctx, usecase.AuditFilter{Category: entity.AuditCategorySponsor})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Created sponsor", logs[0].Action)

	logs, err = svc.ListLogs(ctx, usecase.AuditFilter{Actor: "swift haul operations"})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
