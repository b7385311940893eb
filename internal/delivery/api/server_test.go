package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rewards/config"
	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/response"
	"rewards/internal/delivery/api/router"
	"rewards/internal/delivery/api/router/handler"
	"rewards/internal/domain/constants"
	"rewards/internal/domain/entity"
	"rewards/internal/domain/service"
	"rewards/internal/infra/auth"
	"rewards/internal/infra/eventbus"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/metrics"
	"rewards/internal/infra/persistence"
	"rewards/internal/infra/persistence/local"
	"rewards/internal/infra/persistence/remote"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/infra/qrcode"
	"rewards/internal/infra/settings"
	"rewards/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	echo   *echo.Echo
	bus    *eventbus.Bus
	tokens service.TokenService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{TokenTTL: time.Hour, InitialStateTimeout: 200 * time.Millisecond}
	cfg.Metrics = &config.MetricsConfig{Enabled: true}

	backend, err := kv.OpenBlob(ctx, "mem://", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	bus := eventbus.New(logger, m, nil, "test")
	t.Cleanup(func() { _ = bus.Close() })

	cfgStore := settings.Load(ctx, backend, bus, logger)
	storeRouter := persistence.NewRouter(
		cfgStore,
		local.NewStore(constants.StoreNameMock, constants.StoreNameMock, backend, seed.Mock, logger),
		local.NewStore(constants.StoreNameRemote, constants.StoreNameRemote, remote.WithLatency(backend, 0, 0, m), seed.Remote, logger),
		m,
	)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	mockAuth := auth.NewMockProvider(backend, "admin", logger)
	t.Cleanup(func() { _ = mockAuth.Close() })
	liveAuth, err := auth.NewFirebaseProvider(ctx, nil, logger)
	require.NoError(t, err)

	users := impl.NewUserService(impl.UserServiceParams{Router: storeRouter, Bus: bus, Logger: logger})
	messages := impl.NewMessageService(impl.MessageServiceParams{Router: storeRouter, Bus: bus, Logger: logger})

	params := ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
				AuthUC: impl.NewAuthService(impl.AuthServiceParams{
					Settings: cfgStore,
					Mock:     mockAuth,
					Live:     liveAuth,
					Router:   storeRouter,
					Tokens:   tokens,
					Bus:      bus,
					Config:   cfg,
					Logger:   logger,
				}),
				Logger: logger,
			}),
			SettingsHandler: handler.NewSettingsHandler(handler.SettingsHandlerParams{
				SettingsUC: impl.NewSettingsService(impl.SettingsServiceParams{Settings: cfgStore, Router: storeRouter, Bus: bus, Logger: logger}),
				UserUC:     users,
			}),
			UserHandler: handler.NewUserHandler(handler.UserHandlerParams{UserUC: users}),
			SponsorHandler: handler.NewSponsorHandler(handler.SponsorHandlerParams{
				SponsorUC: impl.NewSponsorService(impl.SponsorServiceParams{
					Router:        storeRouter,
					QRCodeService: qrcode.NewQRCodeService(128, "M", "http://localhost/apply"),
					Bus:           bus,
					Logger:        logger,
				}),
				UserUC: users,
			}),
			CatalogHandler: handler.NewCatalogHandler(handler.CatalogHandlerParams{
				CatalogUC: impl.NewCatalogService(impl.CatalogServiceParams{Router: storeRouter, Bus: bus, Logger: logger}),
				UserUC:    users,
			}),
			ApplicationHandler: handler.NewApplicationHandler(handler.ApplicationHandlerParams{
				ApplicationUC: impl.NewApplicationService(impl.ApplicationServiceParams{Router: storeRouter, Bus: bus, Logger: logger}),
				UserUC:        users,
			}),
			PointsHandler: handler.NewPointsHandler(handler.PointsHandlerParams{
				PointsUC: impl.NewPointsService(impl.PointsServiceParams{Router: storeRouter, Bus: bus, Logger: logger}),
				UserUC:   users,
			}),
			MessageHandler: handler.NewMessageHandler(handler.MessageHandlerParams{MessageUC: messages}),
			AuditHandler: handler.NewAuditHandler(handler.AuditHandlerParams{
				AuditUC:  impl.NewAuditService(storeRouter),
				ReportUC: impl.NewReportService(impl.ReportServiceParams{Router: storeRouter, Settings: cfgStore}),
				UserUC:   users,
			}),
			EventHandler:   handler.NewEventHandler(handler.EventHandlerParams{Bus: bus, Logger: logger}),
			TestHandler:    handler.NewTestHandler(handler.TestHandlerParams{Bus: bus}),
			AuthMiddleware: middleware.NewAuthMiddleware(tokens),
			Metrics:        m,
			Config:         cfg,
		},
	}

	return &apiEnv{echo: newEcho(params), bus: bus, tokens: tokens}
}

func (e *apiEnv) token(t *testing.T, userID string, role entity.Role) string {
	t.Helper()

	token, err := e.tokens.GenerateAccessToken(userID, "", []string{role.String()})
	require.NoError(t, err)

	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.echo.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return env
}

func TestServer_HealthAndMetrics(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestServer_RequiresToken(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, rec).Error.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/me", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", decode(t, rec).Error.Code)
}

func TestServer_SignInThenProfile(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signin", "", `{"email":"jane.driver@example.com","password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session entity.Session
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &session))
	require.NotEmpty(t, session.AccessToken)

	rec = env.do(t, http.MethodGet, "/api/v1/users/me", session.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me entity.User
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &me))
	assert.Equal(t, seed.MockDriverJane, me.ID)
	assert.Equal(t, 5400, me.Balance())
}

func TestServer_SignInRejectsUnknownEmail(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signin", "", `{"email":"nobody@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, rec).Error.Code)
}

func TestServer_AdjustPointsRespectsRoleAndFloor(t *testing.T) {
	env := newAPIEnv(t)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)
	staff := env.token(t, seed.MockSponsorStaff, entity.RoleSponsor)

	rec := env.do(t, http.MethodPost, "/api/v1/points/adjust", driver, `{"userId":"u-driver-jane","amount":100,"reason":"self"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/points/adjust", staff, `{"userId":"u-driver-jane","amount":-6000,"reason":"penalty"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, entity.CodePointsFloor, decode(t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/points/adjust", staff, `{"userId":"u-driver-jane","amount":-5000,"reason":"penalty"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx entity.Transaction
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tx))
	assert.Equal(t, -5000, tx.Amount)
	assert.Equal(t, "Swift Haul Operations", tx.ActorName)

	rec = env.do(t, http.MethodGet, "/api/v1/users/u-driver-jane", staff, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var jane entity.User
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &jane))
	assert.Equal(t, 400, jane.Balance())
}

func TestServer_DriverCannotReadOtherProfiles(t *testing.T) {
	env := newAPIEnv(t)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)

	rec := env.do(t, http.MethodGet, "/api/v1/users/"+seed.MockDriverMarco, driver, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_PurchaseValidation(t *testing.T) {
	env := newAPIEnv(t)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)

	rec := env.do(t, http.MethodPost, "/api/v1/points/purchase", driver, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/points/purchase", driver, `{"items":[{"productId":"prod-thermos","quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx entity.Transaction
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tx))
	assert.Equal(t, -1600, tx.Amount)
	assert.Equal(t, entity.TransactionPurchase, tx.Type)
}

func TestServer_PurchaseRejectsOversizedQuantity(t *testing.T) {
	env := newAPIEnv(t)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)

	rec := env.do(t, http.MethodPost, "/api/v1/points/purchase", driver, `{"items":[{"productId":"prod-seat","quantity":6148914691236518}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, rec).Error.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/me", driver, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me entity.User
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &me))
	assert.Equal(t, 5400, me.Balance())
}

func TestServer_StaffAreScopedToTheirSponsor(t *testing.T) {
	env := newAPIEnv(t)
	staff := env.token(t, seed.MockSponsorStaff, entity.RoleSponsor)
	admin := env.token(t, seed.MockAdmin, entity.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/v1/points/adjust", staff, `{"userId":"u-driver-marco","amount":-100,"reason":"penalty"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/"+seed.MockDriverMarco+"/transactions", staff, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/points/transactions/tx-marco-inspection/refund/deny", staff, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/"+seed.MockDriverJane+"/transactions", staff, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/"+seed.MockDriverMarco+"/transactions", admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/points/transactions/"+seed.MockPurchaseTx+"/refund/approve", staff, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tx entity.Transaction
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tx))
	require.NotNil(t, tx.RefundStatus)
	assert.Equal(t, entity.RefundRefunded, *tx.RefundStatus)
}

func TestServer_SponsorQRCode(t *testing.T) {
	env := newAPIEnv(t)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)

	rec := env.do(t, http.MethodGet, "/api/v1/sponsors/"+seed.MockSponsorSwift+"/qr", driver, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = env.do(t, http.MethodGet, "/api/v1/sponsors/sp-missing/qr", driver, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SettingsSwitchDataset(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.token(t, seed.MockAdmin, entity.RoleAdmin)
	driver := env.token(t, seed.MockDriverJane, entity.RoleDriver)

	rec := env.do(t, http.MethodPatch, "/api/v1/settings", driver, `{"useMockDB":false}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/settings", admin, `{"useMockDB":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"useMockDB":false`)
	assert.Contains(t, rec.Body.String(), `"testMode":true`)

	rec = env.do(t, http.MethodGet, "/api/v1/catalog", driver, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rprod-gps")
	assert.NotContains(t, rec.Body.String(), "prod-thermos")
}

func TestServer_EventStream(t *testing.T) {
	env := newAPIEnv(t)
	srv := httptest.NewServer(env.echo)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token := env.token(t, seed.MockDriverJane, entity.RoleDriver)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?access_token="+token, nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": stream started\n", line)

	env.bus.Publish(service.SignalConfigChanged)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			break
		}
	}
	assert.Equal(t, "event: config-changed\n", line)
}
