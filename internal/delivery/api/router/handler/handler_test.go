package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rewards/internal/delivery/api/validator"
	deliverycontext "rewards/internal/delivery/context"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string, principal *deliverycontext.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		deliverycontext.SetPrincipal(c, *principal)
	}

	return c, rec
}

func TestHealthCheck(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", nil)

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRequireSelfOrStaff(t *testing.T) {
	driver := &deliverycontext.Principal{UserID: "u-1", Roles: []string{entity.RoleDriver.String()}}
	sponsor := &deliverycontext.Principal{UserID: "u-2", Roles: []string{entity.RoleSponsor.String()}}

	tests := []struct {
		name      string
		principal *deliverycontext.Principal
		target    string
		wantErr   error
	}{
		{name: "self", principal: driver, target: "u-1"},
		{name: "other driver", principal: driver, target: "u-9", wantErr: domainerrors.ErrForbidden},
		{name: "staff", principal: sponsor, target: "u-9"},
		{name: "anonymous", target: "u-1", wantErr: domainerrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/", tt.principal)
			err := requireSelfOrStaff(c, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQueryTime(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/?since=2024-05-01T00:00:00Z&bad=yesterday", nil)

	since, err := queryTime(c, "since")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), since)

	missing, err := queryTime(c, "until")
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	_, err = queryTime(c, "bad")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestTestHandler_PublishSignal(t *testing.T) {
	bus := &recordingBus{}
	h := NewTestHandler(TestHandlerParams{Bus: bus})

	c, rec := newContext(http.MethodPost, "/", nil)
	c.SetParamNames("signal")
	c.SetParamValues("reload-requested")
	require.NoError(t, h.TestPublishSignal(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []service.Signal{service.SignalReloadRequested}, bus.published)

	c, rec = newContext(http.MethodPost, "/", nil)
	c.SetParamNames("signal")
	c.SetParamValues("bogus")
	require.NoError(t, h.TestPublishSignal(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, bus.published, 1)
}

type recordingBus struct {
	published []service.Signal
}

func (b *recordingBus) Publish(signal service.Signal) {
	b.published = append(b.published, signal)
}

func (b *recordingBus) Subscribe(service.Signal, func(service.Signal)) func() {
	return func() {}
}

func (b *recordingBus) Stream(ctx context.Context) <-chan service.Signal {
	ch := make(chan service.Signal)
	go func() {
		<-ctx.Done()
		close(ch)
	}()

	return ch
}
