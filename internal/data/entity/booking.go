package entity

import (
	"time"

	"barbershop-booking/internal/slot"
	"barbershop-booking/pkg/apperror"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// ActiveStatuses are the statuses that occupy time on the calendar.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	Base
	CustomerID      int64          `db:"customer_id"`
	ShopID          int64          `db:"shop_id"`
	ServiceID       int64          `db:"service_id"`
	EmployeeID      *int64         `db:"employee_id"`
	Date            time.Time      `db:"booking_date"`
	StartTime       slot.TimeOfDay `db:"booking_time"`
	DurationMinutes int            `db:"duration_minutes"`
	Status          BookingStatus  `db:"status"`
	Notes           *string        `db:"notes"`
}

type NewBookingParams struct {
	CustomerID      int64
	ShopID          int64
	ServiceID       int64
	EmployeeID      *int64
	Date            time.Time
	StartTime       slot.TimeOfDay
	DurationMinutes int
	Notes           *string
}

// NewBooking builds a PENDING booking. The duration is a snapshot of the service
// at this moment and is never re-derived.
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.DurationMinutes < 1 {
		return nil, apperror.InvalidConfiguration("service duration must be positive", nil)
	}

	return &Booking{
		CustomerID:      p.CustomerID,
		ShopID:          p.ShopID,
		ServiceID:       p.ServiceID,
		EmployeeID:      p.EmployeeID,
		Date:            DateOnly(p.Date),
		StartTime:       p.StartTime,
		DurationMinutes: p.DurationMinutes,
		Status:          BookingStatusPending,
		Notes:           p.Notes,
	}, nil
}

func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

func (b *Booking) OwnedBy(customerID int64) bool {
	return b.CustomerID == customerID
}

func (b *Booking) EndTime() slot.TimeOfDay {
	return b.StartTime.Add(b.DurationMinutes)
}

func (b *Booking) Interval() slot.Interval {
	return slot.NewInterval(b.StartTime, b.DurationMinutes)
}

// StartsAt is the booking's start instant in the shop's zone.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.StartTime.On(b.Date, loc)
}

// Cancel moves an active booking to CANCELLED. It reports false without error
// when the booking was already cancelled.
func (b *Booking) Cancel(now time.Time, loc *time.Location) (bool, error) {
	if !b.StartsAt(loc).After(now) {
		return false, apperror.InvalidRequest("cannot cancel past appointments")
	}
	if b.Status == BookingStatusCancelled {
		return false, nil
	}
	if !b.IsActive() {
		return false, apperror.InvalidRequest("cannot cancel appointment with status %s", b.Status)
	}

	b.Status = BookingStatusCancelled
	return true, nil
}

// Reschedule moves the booking in place. Id, status and duration snapshot are kept.
// A nil employee keeps the current assignment; nil notes keep the current notes.
func (b *Booking) Reschedule(date time.Time, start slot.TimeOfDay, employeeID *int64, notes *string) error {
	if !b.IsActive() {
		return apperror.InvalidRequest("cannot reschedule appointment with status %s", b.Status)
	}

	b.Date = DateOnly(date)
	b.StartTime = start
	if employeeID != nil {
		b.EmployeeID = employeeID
	}
	if notes != nil {
		b.Notes = notes
	}
	return nil
}

// DateOnly drops the clock part and zone of t, keeping its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
