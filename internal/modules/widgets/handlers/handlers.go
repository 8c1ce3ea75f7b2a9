package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"weatherboard/internal/modules/widgets/card"
	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/types"
	"weatherboard/internal/modules/widgets/views"
	"weatherboard/internal/units"
)

// Dashboard is the collection the handlers read and mutate.
type Dashboard interface {
	Add(ctx context.Context, w types.Widget) error
	Remove(ctx context.Context, city string) (int, error)
	Widgets() []types.Widget
	Find(city string) (types.Widget, bool)
}

type WidgetsHandler interface {
	RegisterRoutes(mux *http.ServeMux)
}

type Options struct {
	Logger    *slog.Logger
	Clock     func() time.Time
	NoticeTTL time.Duration
}

type widgetsHandlerImpl struct {
	dashboard Dashboard
	logger    *slog.Logger
	clock     func() time.Time

	// mu guards the dialog state below, shared by every browser session.
	mu      sync.Mutex
	form    *form.Form
	confirm *card.Confirm
	reqCtx  context.Context
}

func NewWidgetsHandler(dashboard Dashboard, opts Options) WidgetsHandler {
	return newWidgetsHandler(dashboard, opts)
}

func newWidgetsHandler(dashboard Dashboard, opts Options) *widgetsHandlerImpl {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	h := &widgetsHandlerImpl{
		dashboard: dashboard,
		logger:    opts.Logger,
		clock:     opts.Clock,
	}
	h.form = form.New(h.addFromForm, opts.Clock)
	if opts.NoticeTTL > 0 {
		h.form.Notice().SetTTL(opts.NoticeTTL)
	}
	return h
}

func (h *widgetsHandlerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", h.handleDashboard)
	mux.HandleFunc("GET /widgets", h.handleCardsPartial)
	mux.HandleFunc("GET /widgets/new", h.handleOpenForm)
	mux.HandleFunc("POST /widgets", h.handleSubmitForm)
	mux.HandleFunc("POST /widgets/cancel", h.handleCancelForm)
	mux.HandleFunc("GET /widgets/{city}/remove", h.handleOpenConfirm)
	mux.HandleFunc("POST /widgets/{city}/delete", h.handleConfirmRemove)
	mux.HandleFunc("POST /widgets/{city}/cancel", h.handleCancelConfirm)
	mux.HandleFunc("POST /unit/toggle", h.handleToggleUnit)
	mux.HandleFunc("POST /notice/dismiss", h.handleDismissNotice)

	mux.HandleFunc("GET /api/v1/widgets", h.handleListWidgets)
	mux.HandleFunc("POST /api/v1/widgets", h.handleCreateWidget)
	mux.HandleFunc("DELETE /api/v1/widgets/{city}", h.handleDeleteWidget)
	mux.HandleFunc("GET /api/v1/unit", h.handleGetUnit)
	mux.HandleFunc("POST /api/v1/unit/toggle", h.handleToggleUnitAPI)
}

// requestCtxLocked is the context of the request driving a dialog
// callback. Callers hold h.mu.
func (h *widgetsHandlerImpl) requestCtxLocked() context.Context {
	if h.reqCtx == nil {
		return context.Background()
	}
	return h.reqCtx
}

// addFromForm is the form's add callback; it runs with h.mu held.
func (h *widgetsHandlerImpl) addFromForm(w types.Widget) error {
	ctx := h.requestCtxLocked()
	err := h.dashboard.Add(ctx, w)
	if err == nil || errors.Is(err, controller.ErrDuplicateCity) {
		return err
	}
	// The widget is in the collection; the next change writes it again.
	h.logger.ErrorContext(ctx, "add widget: persist failed", "city", w.City, "error", err)
	return nil
}

// removeFromConfirm is the confirm dialog's remove callback; it runs with
// h.mu held.
func (h *widgetsHandlerImpl) removeFromConfirm(city string) {
	ctx := h.requestCtxLocked()
	removed, err := h.dashboard.Remove(ctx, city)
	if err != nil {
		h.logger.ErrorContext(ctx, "remove widget: persist failed", "city", city, "error", err)
		return
	}
	h.logger.InfoContext(ctx, "widget removed", "city", city, "removed", removed, "source", "form")
}

// pageDataLocked builds the dashboard view model. Callers hold h.mu.
func (h *widgetsHandlerImpl) pageDataLocked(r *http.Request) *views.DashboardData {
	unit := units.FromContext(r.Context()).Unit()
	data := views.NewDashboardData(h.dashboard.Widgets(), unit, controller.EmptyMessage)
	data.Form = views.NewFormView(h.form)
	data.Confirm = views.NewConfirmView(h.confirm)
	notice := h.form.Notice()
	if msg, ok := notice.Message(); ok {
		data.WithNotice(msg, notice.Remaining())
	}
	return data
}
