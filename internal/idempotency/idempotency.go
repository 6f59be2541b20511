package idempotency

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Header carries the idempotency key on HTTP requests between services.
const Header = "Idempotency-Key"

type ctxKey struct{}

func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

// GetKey returns the key stored in ctx. Callers that sent no key get a fresh one, so
// their requests are never collapsed with anyone else's.
func GetKey(ctx context.Context) string {
	key, ok := ctx.Value(ctxKey{}).(string)
	if !ok || key == "" {
		return uuid.NewString()
	}

	return key
}

// FromContext reports whether ctx carries a key at all.
func FromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(ctxKey{}).(string)
	return key, ok && key != ""
}

// EchoMiddleware copies the Idempotency-Key header into the request context.
func EchoMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if key := c.Request().Header.Get(Header); key != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(WithKey(req.Context(), key)))
		}

		return next(c)
	}
}
