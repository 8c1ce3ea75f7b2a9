package handlers

import (
	"errors"
	"net/http"

	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/types"
	"weatherboard/internal/units"
	"weatherboard/internal/utils"
)

type unitResponse struct {
	Unit units.Unit `json:"unit"`
}

type removeResponse struct {
	Removed int `json:"removed"`
}

func (h *widgetsHandlerImpl) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	widgets := h.dashboard.Widgets()
	if widgets == nil {
		widgets = []types.Widget{}
	}
	utils.WriteJSON(w, http.StatusOK, widgets)
}

func (h *widgetsHandlerImpl) handleCreateWidget(w http.ResponseWriter, r *http.Request) {
	var sub form.Submission
	if err := utils.DecodeJSON(w, r, &sub); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	wd, errs := form.Build(sub.Input(), h.clock())
	if errs != nil {
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, "validation failed", errs)
		return
	}

	if err := h.dashboard.Add(r.Context(), wd); err != nil {
		if errors.Is(err, controller.ErrDuplicateCity) {
			utils.WriteError(w, http.StatusConflict, controller.ErrDuplicateCity.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "api: add widget failed", "city", wd.City, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to save widgets")
		return
	}
	h.logger.InfoContext(r.Context(), "widget created", "city", wd.City, "source", "api")
	utils.WriteJSON(w, http.StatusCreated, wd)
}

func (h *widgetsHandlerImpl) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	if city == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing city")
		return
	}

	removed, err := h.dashboard.Remove(r.Context(), city)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "api: remove widget failed", "city", city, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to save widgets")
		return
	}
	utils.WriteJSON(w, http.StatusOK, removeResponse{Removed: removed})
}

func (h *widgetsHandlerImpl) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, unitResponse{Unit: units.FromContext(r.Context()).Unit()})
}

func (h *widgetsHandlerImpl) handleToggleUnitAPI(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, unitResponse{Unit: units.FromContext(r.Context()).Toggle()})
}
