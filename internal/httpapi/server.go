package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"weatherboard/internal/config"
	"weatherboard/internal/units"
)

// NewServer wraps mux with the preference provider, request logging and
// request metrics.
func NewServer(cfg config.Config, mux *http.ServeMux, pref *units.Preference, observer RequestObserver, logger *slog.Logger) *http.Server {
	handler := units.Provide(pref)(requestLogger(logger, observer, mux))
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
