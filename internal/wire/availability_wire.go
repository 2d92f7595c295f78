package wire

import (
	"barbershop-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/availability/shop/{shopId}/date/{date}?employeeId= - slot grid for a day
	r.Get("/api/availability/shop/{shopId}/date/{date}", availabilityHandler.GetAvailableSlots)
}
