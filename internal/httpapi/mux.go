package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"
)

// NewMux registers the infrastructure routes: health, metrics and static
// assets. Feature modules add their own routes afterwards.
func NewMux(db *sql.DB, staticDir string, metricsHandler http.Handler, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, logger)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	if staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return mux
}
