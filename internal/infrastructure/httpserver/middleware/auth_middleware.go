package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/ports"
	"github.com/sportweather/sportweather-api/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	userService ports.UserService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, userService ports.UserService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, userService: userService, logger: logger}
}

// RequireJWT creates middleware that validates JWT tokens and sets user context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.authService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			helpers.SetUserID(c, claims.UserID)
			helpers.SetUserEmail(c, claims.Email)

			userObj, err := m.userService.GetUser(c.Request().Context(), claims.UserID)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"user_id": claims.UserID}).WithError(err).Warn("token valid but user not found")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			helpers.SetCurrentUser(c, userObj)

			return next(c)
		}
	}
}
