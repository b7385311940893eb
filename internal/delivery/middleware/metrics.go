package middleware

import (
	"strconv"
	"time"

	"rewards/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts, latency and in-flight requests.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Handle labels requests by route template so path parameters do not explode cardinality.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		m.metrics.RequestStarted()

		err := next(c)

		status := responseStatus(c, err)
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		m.metrics.RequestFinished(c.Request().Method, path, strconv.Itoa(status), time.Since(start))

		return err
	}
}
