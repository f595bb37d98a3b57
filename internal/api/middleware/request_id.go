package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	// RequestIDKey is the gin context key handlers read the request id from.
	RequestIDKey = "request_id"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, and echoes
// the active trace id when tracing is on.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(RequestIDKey, reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)

		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			c.Writer.Header().Set(HeaderTraceID, spanCtx.TraceID().String())
		}
		c.Next()
	}
}
