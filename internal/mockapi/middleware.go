package mockapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader   = "x-amzn-RequestId"
	rateLimitHeader   = "x-amzn-RateLimit-Limit"
	accessTokenHeader = "x-amz-access-token"
)

// RequestLog returns Echo middleware that logs requests with structured
// fields and stamps each response with an x-amzn-RequestId.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := uuid.NewString()
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			log.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"query", c.Request().URL.RawQuery,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace, and answers with an InternalFailure error envelope.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					log.Error("panic recovered",
						"error", fmt.Sprint(r),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"stack", string(buf[:n]),
					)

					err = apiError(c, http.StatusInternalServerError, "InternalFailure",
						"We encountered an internal error. Please try again.")
				}
			}()
			return next(c)
		}
	}
}

// RequireAccessToken rejects requests whose x-amz-access-token was not
// issued by s or has expired.
func (s *Server) RequireAccessToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := c.Request().Header.Get(accessTokenHeader)
			if tok == "" || !s.validToken(tok) {
				return apiError(c, http.StatusForbidden, "Unauthorized",
					"Access to requested resource is denied.")
			}
			return next(c)
		}
	}
}

// RequireMarketplace rejects requests without a marketplaceIds parameter.
func RequireMarketplace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.QueryParam("marketplaceIds") == "" {
				return apiError(c, http.StatusBadRequest, "InvalidInput",
					"Missing required 'marketplaceIds' parameter.")
			}
			return next(c)
		}
	}
}

// RateLimit advertises rate on every response, as the real hosts do.
func RateLimit(rate string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(rateLimitHeader, rate)
			return next(c)
		}
	}
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorList struct {
	Errors []errorDetail `json:"errors"`
}

func apiError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorList{Errors: []errorDetail{{Code: code, Message: message}}})
}
