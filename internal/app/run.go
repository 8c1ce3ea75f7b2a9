package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"weatherboard/internal/config"
	db "weatherboard/internal/db"
	httpapi "weatherboard/internal/httpapi"
	"weatherboard/internal/metrics"
	"weatherboard/internal/migrate"
	widgets "weatherboard/internal/modules/widgets"
	widgetviews "weatherboard/internal/modules/widgets/views"
	"weatherboard/internal/mqtt"
	"weatherboard/internal/units"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"sqliteLogStatements", cfg.SQLiteLogStatements,
		"storageKey", cfg.StorageKey,
		"noticeTTL", cfg.NoticeTTL,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)
	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database connection successful")

	if err := widgetviews.LoadTemplates(); err != nil {
		return err
	}

	appMetrics := metrics.New()
	mux := httpapi.NewMux(dbConn, cfg.StaticDir, appMetrics.Handler(), logger)
	dashboard, err := widgets.RegisterFeature(ctx, mux, dbConn, cfg, appMetrics, logger)
	if err != nil {
		return err
	}

	var mqttSubscriber *mqtt.Subscriber
	if cfg.MQTTEnabled() {
		mqttSubscriber, err = mqtt.NewSubscriber(cfg, logger)
		if err != nil {
			return err
		}
		mqttSubscriber.InvalidHandler = func(string, error) { appMetrics.MQTTMessage("invalid") }
		// Set the handler before Connect so messages queued by the broker
		// right after CONNACK are not lost.
		widgets.RegisterMQTTHandler(ctx, mqttSubscriber, dashboard, time.Now, appMetrics, logger)

		// Use a short timeout for initial MQTT connect so we don't block startup when broker is down.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttSubscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			logger.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	} else {
		logger.Info("mqtt disabled (MQTT_BROKER not set)")
	}

	srv := httpapi.NewServer(cfg, mux, units.NewPreference(), appMetrics, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mqttSubscriber != nil {
		logger.Info("mqtt disconnecting")
		mqttSubscriber.Disconnect()
	}

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
