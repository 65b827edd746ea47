package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/api/metrics"
	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

// UserIDKey is the echo context key holding the authenticated identity.
const UserIDKey = "user_id"

type userIDCtxKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

// UserIDFromContext returns the identity bound by Auth, or "" if none.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey{}).(string)
	return id
}

// Auth verifies the session token in the Authorization header. The raw token
// is accepted as is; a leading "Bearer " scheme is stripped. Every failure
// yields the same domain.ErrUnauthorized so callers cannot tell a missing
// token from an expired or forged one.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthorized
			}

			userID, err := verifier.Verify(raw)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return domain.ErrUnauthorized
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(WithUserID(c.Request().Context(), userID)))

			return next(c)
		}
	}
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer "
	if len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		header = strings.TrimSpace(header[len(scheme):])
	}
	return header
}
