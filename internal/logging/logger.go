package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"weatherboard/internal/config"
)

// DevVersion is the build version that selects the human-readable handler.
const DevVersion = "dev"

// New builds the process logger. Development builds get colourised tint
// output with source locations; release builds emit JSON. Both add the
// request_id carried by the record's context.
func New(w io.Writer, cfg config.Config, version string, appName string) *slog.Logger {
	if version == DevVersion {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(contextHandler{h}).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(contextHandler{h}).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
