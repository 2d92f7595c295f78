package usecase

import (
	"context"
	"time"

	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/internal/dto/response"
	"barbershop-booking/internal/slot"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// GetAvailableSlots classifies every grid slot of the shop's day. With an
	// employee, only that employee's bookings and shop-wide bookings count.
	GetAvailableSlots(ctx context.Context, shopID int64, date time.Time, employeeID *int64) ([]response.TimeSlotResponse, error)
}

type availabilityService struct {
	bookings  repository.BookingRepository
	directory directory.Client
	opts      Options
	log       *zap.Logger
}

func NewAvailabilityService(bookings repository.BookingRepository, dir directory.Client, opts Options, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		bookings:  bookings,
		directory: dir,
		opts:      opts.withDefaults(),
		log:       log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) GetAvailableSlots(ctx context.Context, shopID int64, date time.Time, employeeID *int64) (slots []response.TimeSlotResponse, err error) {
	ctx, span := tracer.Start(ctx, "availability.GetAvailableSlots")
	span.SetAttributes(
		attribute.Int64("shop.id", shopID),
		attribute.String("date", date.Format(time.DateOnly)),
	)
	defer func() { endSpan(span, err) }()

	fields := []zap.Field{zap.Int64("shop_id", shopID), zap.String("date", date.Format(time.DateOnly))}
	if employeeID != nil {
		fields = append(fields, zap.Int64("employee_id", *employeeID))
	}

	shop, err := s.directory.GetShop(ctx, shopID)
	if err != nil {
		err = classify("shop directory unavailable", err)
		logFailure(s.log, "get available slots", err, fields...)
		return nil, err
	}

	hours, err := slot.ParseHours(shop.OpeningTime, shop.ClosingTime)
	if err != nil {
		logFailure(s.log, "get available slots", err, fields...)
		return nil, err
	}

	var bookings []*entity.Booking
	if employeeID != nil {
		bookings, err = s.bookings.FindActiveByShopAndDateAndEmployee(ctx, shopID, date, *employeeID)
	} else {
		bookings, err = s.bookings.FindActiveByShopAndDate(ctx, shopID, date)
	}
	if err != nil {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "get available slots", err, fields...)
		return nil, err
	}

	busy := make([]slot.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			busy = append(busy, b.Interval())
		}
	}

	slots = []response.TimeSlotResponse{}
	for t := range hours.Slots(s.opts.SlotGranularityMinutes) {
		ts := response.TimeSlotResponse{Time: t.String(), Available: true, Reason: response.SlotReasonAvailable}
		if slot.Occupied(t, busy) {
			ts.Available = false
			ts.Reason = response.SlotReasonBooked
		}
		slots = append(slots, ts)
	}

	s.log.Debug("Availability computed",
		append(fields,
			zap.Int("slots", len(slots)),
			zap.Int("active_bookings", len(busy)),
		)...,
	)

	return slots, nil
}
