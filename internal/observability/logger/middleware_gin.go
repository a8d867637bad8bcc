package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/log/ctxlogger"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// GinMiddleware assigns a correlation ID to each request and logs its outcome.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(requestIDHeader); incoming != "" {
			ctx = correlation.ContextWithCorrelationID(ctx, incoming)
		}
		ctx, requestID := correlation.EnsureCorrelationID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		log := ctxlogger.FromContext(ctx).With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request failed")
		case c.Writer.Status() >= 400:
			log.Warn("request rejected")
		default:
			log.Info("request served")
		}
	}
}
