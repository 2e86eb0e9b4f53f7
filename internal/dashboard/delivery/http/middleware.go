package http

import (
	"net/http"
	"time"

	"traderflow/internal/dashboard/service"
	"traderflow/pkg/common"
	"traderflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// sessionCookieMaxAge keeps the session cookie for a year.
const sessionCookieMaxAge = 365 * 24 * 60 * 60

// RegisterMiddleware installs request ID, panic recovery, request logging and
// the session middleware on e.
func RegisterMiddleware(e *echo.Echo, preferences service.PreferenceService, log *logger.Logger) {
	e.Use(middleware.RequestID())
	e.Use(RequestContext())
	e.Use(middleware.Recover())
	e.Use(RequestLogger(log))
	e.Use(Session(preferences, log))
}

// RequestContext copies the Echo request ID into the request context so
// downstream logs carry it.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}

// RequestLogger logs every request with zap.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				logger.StringField("method", v.Method),
				logger.StringField("uri", v.URI),
				logger.IntField("status", v.Status),
				logger.Field("latency", v.Latency.String()),
				logger.StringField("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Error("Request failed", append(fields, logger.ErrorField(v.Error))...)
				return nil
			}
			log.Debug("Request handled", fields...)
			return nil
		},
	})
}

// Session assigns every browser a session cookie and loads its display mode
// into the Echo context, where handlers and templates read it.
func Session(preferences service.PreferenceService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(common.SessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     common.SessionCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					Expires:  time.Now().Add(sessionCookieMaxAge * time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(common.ContextKeySession, id)

			ctx := c.Request().Context()
			dark, err := preferences.DarkMode(ctx, id)
			if err != nil {
				log.WarnContext(ctx, "Failed to load display mode", logger.StringField("session_id", id), logger.ErrorField(err))
			}
			c.Set(common.ContextKeyDarkMode, dark)
			return next(c)
		}
	}
}
