package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"snaplink/internal/bookings/service"
	httputil "snaplink/pkg/http"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListForPhotographer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	from, _, err := httputil.QueryTime(r, "from")
	if err != nil {
		h.writeError(w, "ListForPhotographer", err)
		return
	}
	to, _, err := httputil.QueryTime(r, "to")
	if err != nil {
		h.writeError(w, "ListForPhotographer", err)
		return
	}
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListForPhotographer", err)
		return
	}

	bookings, total, err := h.service.ListForPhotographer(r.Context(), ps.ByName("id"), from, to, limit, offset)
	if err != nil {
		h.writeError(w, "ListForPhotographer", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForPhotographer", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RescheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Reschedule", err)
		return
	}

	result, err := h.service.Reschedule(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Reschedule", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Reschedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cleanup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		h.writeError(w, "Cleanup", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Cleanup", "operation", "WriteSuccess", "error", err)
	}
}

type transitionFunc func(ctx context.Context, id string) (*model.Booking, error)

// transition adapts one lifecycle operation to a bodiless POST.
func (h *BookingHandler) transition(name string, fn transitionFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		booking, err := fn(r.Context(), ps.ByName("id"))
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		if err := httputil.WriteSuccess(w, booking); err != nil {
			h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
		}
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.POST("/api/v1/bookings/quote", h.Quote)
	router.POST("/api/v1/bookings/cleanup", h.Cleanup)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PUT("/api/v1/bookings/id/:id/schedule", h.Reschedule)

	router.POST("/api/v1/bookings/id/:id/confirm", h.transition("Confirm", h.service.Confirm))
	router.POST("/api/v1/bookings/id/:id/start", h.transition("Start", h.service.Start))
	router.POST("/api/v1/bookings/id/:id/complete", h.transition("Complete", h.service.Complete))
	router.POST("/api/v1/bookings/id/:id/cancel", h.transition("Cancel", h.service.Cancel))
	router.POST("/api/v1/bookings/id/:id/complaint", h.transition("FileComplaint", h.service.FileComplaint))
	router.POST("/api/v1/bookings/id/:id/refund", h.transition("ResolveComplaintWithRefund", h.service.ResolveComplaintWithRefund))
	router.POST("/api/v1/bookings/id/:id/expire", h.transition("Expire", h.service.Expire))

	router.GET("/api/v1/photographers/:id/bookings", h.ListForPhotographer)
}
