package widgets

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"weatherboard/internal/config"
	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/handlers"
	"weatherboard/internal/modules/widgets/repository"
	"weatherboard/internal/modules/widgets/storage"
)

// RegisterFeature builds the widget collection on top of db, mounts it and
// adds the dashboard and API routes to mux.
func RegisterFeature(ctx context.Context, mux *http.ServeMux, db *sql.DB, cfg config.Config, observer controller.Observer, logger *slog.Logger) (*controller.Dashboard, error) {
	widgetRepository := repository.NewRepository(db)
	adapter := storage.NewAdapter(widgetRepository, logger)

	dashboard := controller.New(adapter, cfg.StorageKey, logger)
	if observer != nil {
		dashboard.SetObserver(observer)
	}
	if err := dashboard.Mount(ctx); err != nil {
		return nil, fmt.Errorf("mount dashboard: %w", err)
	}

	widgetsHandler := handlers.NewWidgetsHandler(dashboard, handlers.Options{
		Logger:    logger,
		Clock:     time.Now,
		NoticeTTL: cfg.NoticeTTL,
	})
	widgetsHandler.RegisterRoutes(mux)
	return dashboard, nil
}
