package handlers

import (
	"bytes"
	"net/http"

	"weatherboard/internal/modules/widgets/card"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/views"
	"weatherboard/internal/units"
	"weatherboard/internal/utils"
)

func (h *widgetsHandlerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renderPageLocked(w, r, http.StatusOK)
}

func (h *widgetsHandlerImpl) handleCardsPartial(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	data := h.pageDataLocked(r)
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := views.RenderCards(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "cards partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.ErrorContext(r.Context(), "cards partial: write response failed", "error", err)
	}
}

func (h *widgetsHandlerImpl) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.form.Open()
	h.renderPageLocked(w, r, http.StatusOK)
}

func (h *widgetsHandlerImpl) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.form.Open()
	for _, field := range form.Fields {
		h.form.Change(field, r.PostFormValue(string(field)))
	}
	h.reqCtx = r.Context()
	wd, ok := h.form.Submit()
	h.reqCtx = nil
	if !ok {
		h.logger.DebugContext(r.Context(), "widget form rejected")
		h.renderPageLocked(w, r, http.StatusUnprocessableEntity)
		return
	}
	h.logger.InfoContext(r.Context(), "widget created", "city", wd.City, "source", "form")
	utils.SeeOther(w, r, "/")
}

func (h *widgetsHandlerImpl) handleCancelForm(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.form.Cancel()
	h.mu.Unlock()
	utils.SeeOther(w, r, "/")
}

func (h *widgetsHandlerImpl) handleOpenConfirm(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	if _, ok := h.dashboard.Find(city); !ok {
		http.NotFound(w, r)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.confirm = card.NewConfirm(city, h.removeFromConfirm)
	h.confirm.Open()
	h.renderPageLocked(w, r, http.StatusOK)
}

func (h *widgetsHandlerImpl) handleConfirmRemove(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")

	h.mu.Lock()
	if h.confirm != nil && h.confirm.City() == city {
		h.reqCtx = r.Context()
		h.confirm.Confirm()
		h.reqCtx = nil
		h.confirm = nil
	}
	h.mu.Unlock()

	utils.SeeOther(w, r, "/")
}

func (h *widgetsHandlerImpl) handleCancelConfirm(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")

	h.mu.Lock()
	if h.confirm != nil && h.confirm.City() == city {
		h.confirm.Cancel()
		h.confirm = nil
	}
	h.mu.Unlock()

	utils.SeeOther(w, r, "/")
}

func (h *widgetsHandlerImpl) handleToggleUnit(w http.ResponseWriter, r *http.Request) {
	u := units.FromContext(r.Context()).Toggle()
	h.logger.DebugContext(r.Context(), "unit toggled", "unit", u)
	utils.SeeOther(w, r, "/")
}

func (h *widgetsHandlerImpl) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.form.Notice().Dismiss()
	h.mu.Unlock()
	utils.SeeOther(w, r, "/")
}

// renderPageLocked renders the full dashboard. Callers hold h.mu.
func (h *widgetsHandlerImpl) renderPageLocked(w http.ResponseWriter, r *http.Request, status int) {
	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, h.pageDataLocked(r)); err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard: write response failed", "error", err)
	}
}
