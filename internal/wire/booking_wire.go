package wire

import (
	"barbershop-booking/internal/adaptor"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require session) ====================
	r.Route("/api/appointments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/appointments - book a slot
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/appointments/my-appointments - caller's bookings, newest first
		r.Get("/my-appointments", bookingHandler.GetMyBookings)

		// GET /api/appointments/{id} - one booking (owner only)
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/appointments/{id}/cancel
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/appointments/{id}/reschedule
		r.Put("/{id}/reschedule", bookingHandler.RescheduleBooking)
	})
}
