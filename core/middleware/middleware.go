package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"calctl/core/config"
	"calctl/core/constants"
	"calctl/core/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Middleware bundles the serve-mode HTTP middleware.
type Middleware struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Middleware {
	return &Middleware{cfg: cfg}
}

// RequestID tags every request with a generated id, exposed in the
// X-Request-ID response header and the request context.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(constants.ContextRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start).String(),
				"request_id", c.Get(constants.ContextRequestID),
			)
			return err
		}
	}
}

// BasicAuth enforces the configured credentials. With no basic_auth section
// configured it is a no-op: the server only binds to localhost by default.
func (m *Middleware) BasicAuth() echo.MiddlewareFunc {
	auth := m.cfg.Server.BasicAuth

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth == nil {
				return next(c)
			}

			username, password, ok := c.Request().BasicAuth()
			if !ok {
				return unauthorized(c)
			}
			if subtle.ConstantTimeCompare([]byte(username), []byte(auth.Username)) != 1 {
				return unauthorized(c)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(auth.PasswordHash), []byte(password)); err != nil {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="calctl"`)
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}
