package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// New builds the process logger. Development environments get the console
// writer at debug level; everything else writes JSON lines at info.
func New(appEnv string) zerolog.Logger {
	switch strings.ToLower(strings.TrimSpace(appEnv)) {
	case "development", "dev", "local":
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
		return zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Str("service", "choo").Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Str("service", "choo").Logger()
}

// WithLevel overrides the environment default when level parses
// (LOG_LEVEL=warn, trace, ...). Unknown values leave l unchanged.
func WithLevel(l zerolog.Logger, level string) zerolog.Logger {
	level = strings.TrimSpace(level)
	if level == "" {
		return l
	}
	lv, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		l.Warn().Str("log_level", level).Msg("ignoring unknown log level")
		return l
	}
	return l.Level(lv)
}

// Module returns a child logger tagged with the owning module name.
func Module(appEnv, module string) zerolog.Logger {
	return New(appEnv).With().Str("module", module).Logger()
}

// RequestLogger writes one structured line per HTTP request. Server errors log
// at error level, client errors at warn.
func RequestLogger(l zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := l.Info()
			switch {
			case v.Status >= 500:
				ev = l.Error().Err(v.Error)
			case v.Status >= 400:
				ev = l.Warn()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("http request")
			return nil
		},
	})
}

// Nop returns a disabled logger, useful for tests.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard)
}
