package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/ports"
	"github.com/sportweather/sportweather-api/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	requestLimiter ports.RequestLimiterService
	logger         *logrus.Logger
}

func NewRateLimitMiddleware(requestLimiter ports.RequestLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{requestLimiter: requestLimiter, logger: logger}
}

func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Authenticated requests are limited per user, everything else per client IP.
			subject := c.RealIP()
			if userID, ok := helpers.GetUserIDRaw(c); ok {
				subject = userID.String()
			}

			allowed, remaining, limit, reset, rlErr := r.requestLimiter.Allow(c.Request().Context(), subject)
			// Set standard rate limit headers when available
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("subject", subject).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
