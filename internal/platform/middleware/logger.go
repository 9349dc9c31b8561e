package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hg360/hg360/internal/platform/auth"
)

// Logger emits one structured line per request. Lines carry the request id
// plus the token identity the auth middleware resolved, so portal and back
// office traffic can be attributed to an account without extra lookups.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = callerFields(evt, c)

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}

// callerFields attaches the authenticated account to a log event. Requests on
// skipped routes (login, register, health) have no token and log anonymously.
func callerFields(evt *zerolog.Event, c echo.Context) *zerolog.Event {
	if uid := auth.UserID(c); uid != "" {
		evt = evt.Str("user_id", uid)
	}
	if name, ok := c.Get(auth.UsernameKey).(string); ok && name != "" {
		evt = evt.Str("username", name)
	}
	if role := auth.Role(c); role != "" {
		evt = evt.Str("user_role", role)
	}
	return evt
}
