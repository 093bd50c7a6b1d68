package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request and records its metrics. Routes are
// labelled by their pattern so path IDs do not explode cardinality.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, route, status, latency)

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", response.RequestID(c)).
			Msg("Request handled")
	}
}
