package adaptor

import (
	"net/http"
	"time"

	"barbershop-booking/internal/usecase"
	"barbershop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// GetAvailableSlots handles GET /api/availability/shop/{shopId}/date/{date} (public)
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	shopID, err := utils.ParseID(chi.URLParam(r, "shopId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid shop ID", nil)
		return
	}

	date, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid date, use YYYY-MM-DD", nil)
		return
	}

	employeeID, err := utils.ParseOptionalID(r.URL.Query().Get("employeeId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid employee ID", nil)
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), shopID, date, employeeID)
	if err != nil {
		writeServiceError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}
