package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"snaplink/internal/availability/service"
	httputil "snaplink/pkg/http"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
)

type SlotHandler struct {
	service service.SlotService
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

type deleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.Slot
	if err := httputil.DecodeJSON(r, &slot); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &slot); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SlotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SlotUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	slot, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SlotHandler) ListByPhotographer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slots, err := h.service.ListByPhotographer(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListByPhotographer", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByPhotographer", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) DeleteAllForPhotographer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deleted, err := h.service.DeleteAllForPhotographer(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "DeleteAllForPhotographer", err)
		return
	}

	if err := httputil.WriteSuccess(w, deleteAllResponse{Deleted: deleted}); err != nil {
		h.log.Error("failed to write success response", "handler", "DeleteAllForPhotographer", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedule, err := h.service.GetWeeklySchedule(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetWeeklySchedule", err)
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWeeklySchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) ReplaceWeeklySchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.WeeklyScheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "ReplaceWeeklySchedule", err)
		return
	}

	schedule, err := h.service.ReplaceWeeklySchedule(r.Context(), ps.ByName("id"), req.Days)
	if err != nil {
		h.writeError(w, "ReplaceWeeklySchedule", err)
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "ReplaceWeeklySchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) GetStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stats, err := h.service.GetStats(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetStats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/slots", h.Create)
	router.GET("/api/v1/slots/:id", h.GetByID)
	router.PATCH("/api/v1/slots/:id", h.Update)
	router.DELETE("/api/v1/slots/:id", h.Delete)

	router.GET("/api/v1/photographers/:id/slots", h.ListByPhotographer)
	router.DELETE("/api/v1/photographers/:id/slots", h.DeleteAllForPhotographer)
	router.GET("/api/v1/photographers/:id/schedule", h.GetWeeklySchedule)
	router.PUT("/api/v1/photographers/:id/schedule", h.ReplaceWeeklySchedule)
	router.GET("/api/v1/photographers/:id/stats", h.GetStats)
}
