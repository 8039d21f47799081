package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkbio/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// TraceIDMiddleware reuses an inbound X-Trace-ID or mints one, and exposes it
// to handlers, loggers and the response.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(traceHeader, traceID)
		c.Next()
	}
}
