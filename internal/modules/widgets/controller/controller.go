// Package controller owns the authoritative widget collection for the
// running process and keeps persisted storage in step with it.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"weatherboard/internal/modules/widgets/storage"
	"weatherboard/internal/modules/widgets/types"
)

// ErrDuplicateCity is returned by Add when a widget for the city exists.
var ErrDuplicateCity = errors.New("a widget for this city already exists")

// EmptyMessage is shown in place of the card grid when there are no widgets.
const EmptyMessage = "No weather widgets available. Please add a new one!"

// Observer is told about every committed collection change.
type Observer interface {
	WidgetsChanged(op string, count int)
}

type Dashboard struct {
	adapter  storage.Adapter
	key      string
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	widgets []types.Widget
	mounted bool
}

func New(adapter storage.Adapter, key string, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{adapter: adapter, key: key, logger: logger}
}

// SetObserver must be called before Mount.
func (d *Dashboard) SetObserver(o Observer) {
	d.observer = o
}

// Mount adopts the persisted collection when it is non-empty and then
// persists the resulting state. Mounting twice is a no-op.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted {
		return nil
	}

	saved, ok := d.adapter.Load(ctx, d.key)
	if ok && len(saved) > 0 {
		d.widgets = slices.Clone(saved)
	} else {
		d.widgets = nil
	}
	d.mounted = true
	d.logger.InfoContext(ctx, "dashboard mounted", "key", d.key, "widgets", len(d.widgets))

	return d.commitLocked(ctx, "mount")
}

// Add appends w to the end of the collection and persists it.
func (d *Dashboard) Add(ctx context.Context, w types.Widget) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if slices.ContainsFunc(d.widgets, func(x types.Widget) bool { return x.City == w.City }) {
		return fmt.Errorf("add %q: %w", w.City, ErrDuplicateCity)
	}
	d.widgets = append(d.widgets, w)
	d.logger.InfoContext(ctx, "widget added", "city", w.City, "widgets", len(d.widgets))

	return d.commitLocked(ctx, "add")
}

// Remove deletes every widget whose city equals city and persists the rest.
func (d *Dashboard) Remove(ctx context.Context, city string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := len(d.widgets)
	d.widgets = slices.DeleteFunc(d.widgets, func(x types.Widget) bool { return x.City == city })
	removed := before - len(d.widgets)
	if removed == 0 {
		d.logger.DebugContext(ctx, "remove: no widget for city", "city", city)
		return 0, nil
	}
	d.logger.InfoContext(ctx, "widget removed", "city", city, "removed", removed, "widgets", len(d.widgets))

	return removed, d.commitLocked(ctx, "remove")
}

// Widgets returns a copy of the collection in insertion order.
func (d *Dashboard) Widgets() []types.Widget {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.widgets)
}

func (d *Dashboard) Empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.widgets) == 0
}

// Find returns the first widget for city.
func (d *Dashboard) Find(city string) (types.Widget, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.widgets, func(x types.Widget) bool { return x.City == city })
	if i < 0 {
		return types.Widget{}, false
	}
	return d.widgets[i], true
}

// commitLocked persists the full collection. The in-memory change stands
// even if the write fails; the next commit writes everything again.
func (d *Dashboard) commitLocked(ctx context.Context, op string) error {
	if d.observer != nil {
		d.observer.WidgetsChanged(op, len(d.widgets))
	}
	if err := d.adapter.Save(ctx, d.key, d.widgets); err != nil {
		d.logger.ErrorContext(ctx, "persist widgets failed", "op", op, "error", err)
		return fmt.Errorf("persist after %s: %w", op, err)
	}
	return nil
}
