package mockapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/spapi/internal/metrics"
)

var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
}

// Metrics returns Echo middleware that records request duration and status
// by route. /metrics and /healthz are excluded; /healthz updates a 0/1 gauge
// instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				if path == "/healthz" {
					updateHealthGauge(c.Response().Status)
				}
				return err
			}

			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.MockHTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.MockHTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

func updateHealthGauge(status int) {
	if status >= 200 && status < 300 {
		metrics.MockHealthzUp.Set(1)
	} else {
		metrics.MockHealthzUp.Set(0)
	}
}
