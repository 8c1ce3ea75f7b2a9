package widgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/types"
)

// MQTTSubscriber interface for attaching message handlers
type MQTTSubscriber interface {
	SetMessageHandler(handler func(sub form.Submission) error)
}

// IngestObserver counts ingest outcomes.
type IngestObserver interface {
	MQTTMessage(result string)
}

type widgetAdder interface {
	Add(ctx context.Context, w types.Widget) error
}

// RegisterMQTTHandler adds every valid submission received over MQTT to the
// dashboard, exactly as if it had been entered in the form.
func RegisterMQTTHandler(ctx context.Context, subscriber MQTTSubscriber, dashboard widgetAdder, clock func() time.Time, observer IngestObserver, logger *slog.Logger) {
	subscriber.SetMessageHandler(newIngestHandler(ctx, dashboard, clock, observer, logger))
}

func newIngestHandler(ctx context.Context, dashboard widgetAdder, clock func() time.Time, observer IngestObserver, logger *slog.Logger) func(form.Submission) error {
	count := func(result string) {
		if observer != nil {
			observer.MQTTMessage(result)
		}
	}
	return func(sub form.Submission) error {
		w, errs := form.Build(sub.Input(), clock())
		if errs != nil {
			count("invalid")
			return fmt.Errorf("invalid submission for %q: %v", sub.City, map[form.Field]string(errs))
		}

		if err := dashboard.Add(ctx, w); err != nil {
			if errors.Is(err, controller.ErrDuplicateCity) {
				count("rejected")
			} else {
				count("failed")
			}
			return err
		}

		count("accepted")
		logger.InfoContext(ctx, "widget created", "city", w.City, "source", "mqtt")
		return nil
	}
}
