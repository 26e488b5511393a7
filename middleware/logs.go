package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Also write each entry to stdout
	Console bool
	// Append entries to LogFilePath
	File        bool
	LogFilePath string
	// Output overrides Console and File when set
	Output io.Writer
	// Skip logging for specific paths
	SkipPaths []string
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     false,
		File:        true,
		LogFilePath: "logs/requests.log",
		SkipPaths:   []string{"/health"},
	}
}

// RequestID returns the id assigned to the request by LoggingMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (cfg LogConfig) writer() io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			slog.Error("creating request log directory", "error", err)
		} else if file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
			slog.Error("opening request log", "path", cfg.LogFilePath, "error", err)
		} else {
			writers = append(writers, file)
		}
	}
	if len(writers) == 0 {
		return io.Discard
	}
	return io.MultiWriter(writers...)
}

// LoggingMiddleware tags every request with an id (taken from X-Request-ID
// or generated) and writes one JSON line per request.
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	logger := slog.New(slog.NewJSONHandler(cfg.writer(), nil))

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)
		c.Locals("request_id", requestID)
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDKey{}, requestID))

		if skip[c.Path()] {
			return c.Next()
		}

		err := c.Next()

		// the error handler has not written the status yet
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("url", c.OriginalURL()),
			slog.Int("status", status),
			slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			slog.String("ip", c.IP()),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			slog.String("request_id", requestID),
			slog.Int("content_length", len(c.Response().Body())),
		}
		level := slog.LevelInfo
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.UserContext(), level, "request", attrs...)

		return err
	}
}
