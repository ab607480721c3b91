package booking_api

import (
	"context"
	"encoding/json"
	"fmt"
	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *booking.Service
	Logger  *logger.Logger
}

func NewHandler(service *booking.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// Routes mounts the booking API surface on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/booking", h.CreateBooking)
	r.Get("/booking", h.ListBookings)
	r.Get("/booking/{bookingId}", h.GetBooking)
	r.Put("/booking/{bookingId}", h.UpdateBooking)
	r.Put("/booking/{bookingId}/status", h.UpdateStatus)
	r.Delete("/booking/{bookingId}", h.DeleteBooking)
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	if ae, ok := booking.AsAdmissionError(err); ok {
		utils.WriteError(w, ae.Status, ae.Message, ae.Kind, ae.Code)
		return
	}
	h.Logger.Error("API", fmt.Sprintf("internal error: %v", err))
	utils.WriteError(w, http.StatusInternalServerError, "internal error", "internal_error", "")
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", "missing_fields", "BOOKING_001")
		return
	}

	// The authenticated subject wins over whatever the body claims.
	if uid := auth.UserID(r.Context()); uid != "" {
		req.UserID = uid
	}

	h.Logger.Info("API", fmt.Sprintf("CreateBooking: member=%s activity=%s category=%s", req.UserID, req.ActivityID, req.ActivityCategory))

	created, err := h.Service.CreateBooking(r.Context(), req)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("CreateBooking: admission rejected: %v", err))
		h.writeErr(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success:   true,
		Message:   "booking created",
		Data:      created,
		BookingID: created.ID,
	})
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BookingFilter{
		UserID:           q.Get("userId"),
		ActivityID:       q.Get("activityId"),
		ActivityModel:    q.Get("activityModel"),
		ActivityCategory: q.Get("activityCategory"),
		Status:           q.Get("status"),
	}

	bookings, err := h.Service.ListBookings(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "bookings retrieved", bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	found, err := h.Service.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "booking retrieved", found)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req struct {
		PeriodStart *time.Time `json:"periodStart"`
		PeriodEnd   *time.Time `json:"periodEnd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", "missing_fields", "BOOKING_001")
		return
	}

	updated, err := h.Service.UpdateBookingPeriod(r.Context(), bookingID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "booking updated", updated)
}

// UpdateStatus persists the transition and answers right away; calendar,
// voucher and notification work runs after the response is on the wire.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", "missing_fields", "BOOKING_001")
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), bookingID, req.Status)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "booking status updated", updated)

	go func(b models.Booking) {
		// Detached from the request lifecycle on purpose; failures are
		// logged inside.
		h.Service.ApplyStatusSideEffects(context.Background(), &b)
	}(*updated)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	deleted, err := h.Service.DeleteBooking(r.Context(), bookingID)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "booking deleted", deleted)
}
