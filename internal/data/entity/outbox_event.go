package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
)

type OutboxEvent struct {
	ID          int64      `db:"id"`
	EventID     uuid.UUID  `db:"event_id"`
	AggregateID uuid.UUID  `db:"aggregate_id"`
	EventType   string     `db:"event_type"`
	Payload     []byte     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
	PublishedAt *time.Time `db:"published_at"`
}

// BookingEventPayload is the JSON body published for every booking event.
type BookingEventPayload struct {
	BookingID       string  `json:"booking_id"`
	CustomerID      int64   `json:"customer_id"`
	ShopID          int64   `json:"shop_id"`
	ServiceID       int64   `json:"service_id"`
	EmployeeID      *int64  `json:"employee_id,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
}

func NewBookingEventPayload(b *Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID:       b.ID.String(),
		CustomerID:      b.CustomerID,
		ShopID:          b.ShopID,
		ServiceID:       b.ServiceID,
		EmployeeID:      b.EmployeeID,
		Date:            b.Date.Format(time.DateOnly),
		Time:            b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Notes:           b.Notes,
	}
}
