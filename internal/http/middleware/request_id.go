package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxKeyRequestID = "request_id"
)

type ridCtxKey struct{}

// RequestID: her isteğe bir id ver (gelen header varsa onu kullan) ve hem gin
// context'ine hem request context'ine koy. Servis katmanı InfoContext ile
// loglarken id otomatik taşınır, elle geçirilmez.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(CtxKeyRequestID, rid)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), ridCtxKey{}, rid))
		c.Writer.Header().Set(HeaderRequestID, rid)

		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyRequestID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestIDFromContext: gin dışındaki katmanlar için.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ridCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID wraps a logger so every record logged against a request
// context carries the request_id attr.
func WithRequestID(l *slog.Logger) *slog.Logger {
	return slog.New(ridHandler{l.Handler()})
}

type ridHandler struct{ slog.Handler }

func (h ridHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid := RequestIDFromContext(ctx); rid != "" {
		r.AddAttrs(slog.String("request_id", rid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h ridHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ridHandler{h.Handler.WithAttrs(attrs)}
}

func (h ridHandler) WithGroup(name string) slog.Handler {
	return ridHandler{h.Handler.WithGroup(name)}
}
