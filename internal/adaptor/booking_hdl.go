package adaptor

import (
	"encoding/json"
	"net/http"

	"barbershop-booking/internal/dto/request"
	"barbershop-booking/internal/usecase"
	"barbershop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/appointments (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), customerID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Appointment created", booking)
}

// GetMyBookings handles GET /api/appointments/my-appointments (protected)
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.GetCustomerBookings(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, h.log, err, "get customer bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/appointments/{id} (protected, owner only)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	customerID, bookingID, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), customerID, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/appointments/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	customerID, bookingID, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), customerID, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Appointment cancelled", booking)
}

// RescheduleBooking handles PUT /api/appointments/{id}/reschedule (protected)
func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	customerID, bookingID, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}

	var req request.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RescheduleBooking(r.Context(), customerID, bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "reschedule booking")
		return
	}

	utils.ResponseSuccess(w, "Appointment rescheduled", booking)
}

// bookingRequest resolves the caller and the {id} path parameter, writing the
// failure response itself.
func (h *BookingHandler) bookingRequest(w http.ResponseWriter, r *http.Request) (int64, uuid.UUID, bool) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return 0, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid appointment ID", nil)
		return 0, uuid.Nil, false
	}

	return customerID, bookingID, true
}
