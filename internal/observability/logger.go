package observability

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName     = "storefront"
	defaultLogLevel = zapcore.InfoLevel
)

// NewLogger builds the process logger. Production writes JSON lines to
// stdout; any other environment gets a colored console encoder. Every entry
// carries the service and environment names.
func NewLogger(levelName, environment string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(levelName))
	if err != nil {
		level = defaultLogLevel
	}

	production := environment == "production"
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if production {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = level > zapcore.DebugLevel
	cfg.InitialFields = map[string]any{
		"service": serviceName,
		"env":     environment,
	}
	return cfg.Build()
}

// GinLogger logs one line per request once the handler chain has finished.
func GinLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
