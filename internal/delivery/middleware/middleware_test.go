package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rewards/config"
	deliverycontext "rewards/internal/delivery/context"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestIDMiddleware(t *testing.T) {
	mw := NewRequestIDMiddleware(discardLogger())

	t.Run("reuses client id", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var seen string
		err := mw.Process(func(c echo.Context) error {
			seen = deliverycontext.GetRequestIDFromContext(c.Request().Context())

			return nil
		})(c)

		require.NoError(t, err)
		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))
	})

	t.Run("generates id", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, mw.Process(func(echo.Context) error { return nil })(c))
		assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	})
}

func TestResponseStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no error", nil, http.StatusOK},
		{"app error", domainerrors.ErrForbidden, http.StatusForbidden},
		{"wrapped app error", domainerrors.ErrTokenInvalid.WrapMessage("validate"), http.StatusUnauthorized},
		{"echo error", echo.NewHTTPError(http.StatusNotFound), http.StatusNotFound},
		{"plain error", io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			assert.Equal(t, tt.want, responseStatus(c, tt.err))
		})
	}
}

func TestResponseStatus_CommittedWins(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, c.NoContent(http.StatusAccepted))

	assert.Equal(t, http.StatusAccepted, responseStatus(c, nil))
	assert.Equal(t, http.StatusAccepted, responseStatus(c, domainerrors.ErrForbidden))
}

func TestMetricsMiddlewareLabelsRouteTemplate(t *testing.T) {
	m := metrics.New()
	mw := NewMetricsMiddleware(m)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users/u-1", nil), httptest.NewRecorder())
	c.SetPath("/api/v1/users/:id")

	err := mw.Handle(func(echo.Context) error { return domainerrors.ErrForbidden })(c)
	require.Error(t, err)

	assert.Contains(t, gatherText(t, m), `path="/api/v1/users/:id",status="403"`)
}

func gatherText(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	return rec.Body.String()
}

func TestLoggerMiddlewarePassesErrorThrough(t *testing.T) {
	cfg := &config.Config{}
	mw := NewLoggerMiddleware(discardLogger(), cfg)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := mw.Handle(func(echo.Context) error { return domainerrors.ErrUnauthorized })(c)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
