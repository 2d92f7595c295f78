package repository

import (
	"time"

	"barbershop-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking BookingRepository
	Session SessionRepository
	Outbox  OutboxRepository
}

// NewRepository builds every store. timeout bounds each request-path call.
func NewRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(db, timeout, log),
		Session: NewSessionRepository(db, timeout, log),
		Outbox:  NewOutboxRepository(db, log),
	}
}
