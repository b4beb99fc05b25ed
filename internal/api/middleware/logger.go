package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	slogLoggerKey = "slogLogger"
	logAttrsKey   = "logAttrs"
)

// SlogLoggerMiddleware stores a request scoped logger on the context and logs
// one line per finished request. Attributes added with AddLogAttrs during the
// request, such as the editor session id or a stored object key, are appended
// to that line.
func SlogLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestLogger := logger.With(
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		)
		c.Set(slogLoggerKey, requestLogger)

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.Int("status", c.Writer.Status()),
			slog.Int("bytes", max(c.Writer.Size(), 0)),
			slog.Duration("latency", time.Since(start)),
		}
		attrs = append(attrs, logAttrs(c)...)
		requestLogger.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}

// AddLogAttrs attaches attributes to the request's completion line.
func AddLogAttrs(c *gin.Context, attrs ...slog.Attr) {
	c.Set(logAttrsKey, append(logAttrs(c), attrs...))
}

func logAttrs(c *gin.Context) []slog.Attr {
	if value, ok := c.Get(logAttrsKey); ok {
		if attrs, ok := value.([]slog.Attr); ok {
			return attrs
		}
	}
	return nil
}

// LoggerFromContext returns the request logger, or slog.Default().
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if value, ok := c.Get(slogLoggerKey); ok {
		if logger, ok := value.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
