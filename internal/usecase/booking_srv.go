package usecase

import (
	"context"
	"time"

	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/internal/dto/request"
	"barbershop-booking/internal/dto/response"
	"barbershop-booking/internal/slot"
	"barbershop-booking/pkg/apperror"
	"barbershop-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, customerID int64, bookingID uuid.UUID) (*response.BookingResponse, error)
	RescheduleBooking(ctx context.Context, customerID int64, bookingID uuid.UUID, req *request.RescheduleBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, customerID int64, bookingID uuid.UUID) (*response.BookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID int64) ([]response.BookingResponse, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	directory directory.Client
	opts      Options
	log       *zap.Logger
}

func NewBookingService(bookings repository.BookingRepository, dir directory.Client, opts Options, log *zap.Logger) BookingService {
	return &bookingService{
		bookings:  bookings,
		directory: dir,
		opts:      opts.withDefaults(),
		log:       log.With(zap.String("service", "booking")),
	}
}

// CreateBooking and RescheduleBooking validate their requests themselves; the
// HTTP handlers only decode.
func (s *bookingService) CreateBooking(ctx context.Context, customerID int64, req *request.CreateBookingRequest) (_ *response.BookingResponse, err error) {
	ctx, span := tracer.Start(ctx, "booking.Create")
	span.SetAttributes(attribute.Int64("shop.id", req.ShopID), attribute.Int64("customer.id", customerID))
	defer func() { endSpan(span, err) }()

	fields := []zap.Field{
		zap.Int64("customer_id", customerID),
		zap.Int64("shop_id", req.ShopID),
		zap.Int64("service_id", req.ServiceID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	}
	fail := func(err error) (*response.BookingResponse, error) {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "create booking", err, fields...)
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fail(apperror.Validation(utils.FormatValidationErrors(errs), errs))
	}

	date, start, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		return fail(err)
	}

	shop, err := s.directory.GetShop(ctx, req.ShopID)
	if err != nil {
		return fail(err)
	}
	hours, err := slot.ParseHours(shop.OpeningTime, shop.ClosingTime)
	if err != nil {
		return fail(err)
	}

	service, err := s.directory.GetService(ctx, req.ServiceID)
	if err != nil {
		return fail(err)
	}
	if service.ShopID != req.ShopID {
		return fail(apperror.InvalidRequest("service %d is not offered by shop %d", req.ServiceID, req.ShopID))
	}
	if service.Duration < 1 {
		return fail(apperror.InvalidConfiguration("service duration must be positive", nil))
	}

	if err := s.checkSchedule(date, start, service.Duration, hours); err != nil {
		return fail(err)
	}

	if req.EmployeeID != nil {
		if err := s.checkEmployee(ctx, req.ShopID, *req.EmployeeID); err != nil {
			return fail(err)
		}
	}

	booking, err := entity.NewBooking(entity.NewBookingParams{
		CustomerID:      customerID,
		ShopID:          req.ShopID,
		ServiceID:       req.ServiceID,
		EmployeeID:      req.EmployeeID,
		Date:            date,
		StartTime:       start,
		DurationMinutes: service.Duration,
		Notes:           req.Notes,
	})
	if err != nil {
		return fail(err)
	}

	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		if err := tx.LockDay(ctx, booking.ShopID, booking.Date); err != nil {
			return err
		}

		taken, err := tx.ExistsActiveConflict(ctx, repository.ConflictQuery{
			ShopID:          booking.ShopID,
			Date:            booking.Date,
			Start:           booking.StartTime,
			DurationMinutes: booking.DurationMinutes,
			EmployeeID:      booking.EmployeeID,
		})
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict("time slot is already booked")
		}

		if err := tx.Insert(ctx, booking); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, entity.EventBookingCreated, booking)
	})
	if err != nil {
		return fail(err)
	}

	s.log.Info("Booking created",
		append(fields,
			zap.String("booking_id", booking.ID.String()),
			zap.Int("duration_minutes", booking.DurationMinutes),
		)...,
	)

	details := s.details()
	details.shops[req.ShopID] = shop
	details.services[req.ServiceID] = service
	resp := details.response(ctx, booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID int64, bookingID uuid.UUID) (_ *response.BookingResponse, err error) {
	ctx, span := tracer.Start(ctx, "booking.Cancel")
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))
	defer func() { endSpan(span, err) }()

	fields := []zap.Field{zap.Int64("customer_id", customerID), zap.String("booking_id", bookingID.String())}

	var (
		booking *entity.Booking
		changed bool
	)
	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		b, err := tx.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := authorize(b, bookingID, customerID); err != nil {
			return err
		}

		changed, err = b.Cancel(s.opts.Now(), s.opts.Location)
		if err != nil {
			return err
		}
		booking = b
		if !changed {
			return nil
		}

		if err := tx.Update(ctx, b); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, entity.EventBookingCancelled, b)
	})
	if err != nil {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "cancel booking", err, fields...)
		return nil, err
	}

	if changed {
		s.log.Info("Booking cancelled", fields...)
	} else {
		s.log.Debug("Booking already cancelled", fields...)
	}

	resp := s.details().response(ctx, booking)
	return &resp, nil
}

func (s *bookingService) RescheduleBooking(ctx context.Context, customerID int64, bookingID uuid.UUID, req *request.RescheduleBookingRequest) (_ *response.BookingResponse, err error) {
	ctx, span := tracer.Start(ctx, "booking.Reschedule")
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))
	defer func() { endSpan(span, err) }()

	fields := []zap.Field{
		zap.Int64("customer_id", customerID),
		zap.String("booking_id", bookingID.String()),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	}
	fail := func(err error) (*response.BookingResponse, error) {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "reschedule booking", err, fields...)
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fail(apperror.Validation(utils.FormatValidationErrors(errs), errs))
	}

	date, start, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		return fail(err)
	}

	current, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return fail(err)
	}
	if err := authorize(current, bookingID, customerID); err != nil {
		return fail(err)
	}
	if !current.IsActive() {
		return fail(apperror.InvalidRequest("cannot reschedule appointment with status %s", current.Status))
	}

	shop, err := s.directory.GetShop(ctx, current.ShopID)
	if err != nil {
		return fail(err)
	}
	hours, err := slot.ParseHours(shop.OpeningTime, shop.ClosingTime)
	if err != nil {
		return fail(err)
	}

	// The duration snapshot is authoritative; the service may have changed since.
	if err := s.checkSchedule(date, start, current.DurationMinutes, hours); err != nil {
		return fail(err)
	}

	if req.EmployeeID != nil {
		if err := s.checkEmployee(ctx, current.ShopID, *req.EmployeeID); err != nil {
			return fail(err)
		}
	}

	var booking *entity.Booking
	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		if err := tx.LockDay(ctx, current.ShopID, date); err != nil {
			return err
		}

		b, err := tx.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := authorize(b, bookingID, customerID); err != nil {
			return err
		}

		employeeID := b.EmployeeID
		if req.EmployeeID != nil {
			employeeID = req.EmployeeID
		}

		taken, err := tx.ExistsActiveConflict(ctx, repository.ConflictQuery{
			ShopID:          b.ShopID,
			Date:            date,
			Start:           start,
			DurationMinutes: b.DurationMinutes,
			EmployeeID:      employeeID,
			ExcludeID:       b.ID,
		})
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict("time slot is already booked")
		}

		if err := b.Reschedule(date, start, req.EmployeeID, req.Notes); err != nil {
			return err
		}
		if err := tx.Update(ctx, b); err != nil {
			return err
		}
		booking = b
		return tx.AppendEvent(ctx, entity.EventBookingRescheduled, b)
	})
	if err != nil {
		return fail(err)
	}

	s.log.Info("Booking rescheduled", fields...)

	resp := s.details().response(ctx, booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, customerID int64, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err == nil {
		err = authorize(booking, bookingID, customerID)
	}
	if err != nil {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "get booking", err,
			zap.Int64("customer_id", customerID),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, err
	}

	resp := s.details().response(ctx, booking)
	return &resp, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID int64) ([]response.BookingResponse, error) {
	bookings, err := s.bookings.FindByCustomerID(ctx, customerID)
	if err != nil {
		err = classify("booking store unavailable", err)
		logFailure(s.log, "get customer bookings", err, zap.Int64("customer_id", customerID))
		return nil, err
	}

	out := s.details().responses(ctx, bookings)

	s.log.Debug("Customer bookings retrieved",
		zap.Int64("customer_id", customerID),
		zap.Int("count", len(out)),
	)

	return out, nil
}

// checkSchedule enforces a future start and an end no later than closing.
func (s *bookingService) checkSchedule(date time.Time, start slot.TimeOfDay, durationMinutes int, hours slot.Hours) error {
	if !start.On(date, s.opts.Location).After(s.opts.Now()) {
		return apperror.InvalidRequest("appointment time must be in the future")
	}
	if start < hours.Open {
		return apperror.InvalidRequest("appointment starts before opening time %s", hours.Open)
	}
	if start.Add(durationMinutes) > hours.Close {
		return apperror.InvalidRequest("appointment extends past closing time %s", hours.Close)
	}
	return nil
}

func (s *bookingService) checkEmployee(ctx context.Context, shopID, employeeID int64) error {
	employee, err := s.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee.ShopID != shopID {
		return apperror.InvalidRequest("employee %d does not work at shop %d", employeeID, shopID)
	}
	return nil
}

func authorize(b *entity.Booking, bookingID uuid.UUID, customerID int64) error {
	if b == nil {
		return apperror.NotFound("appointment %s not found", bookingID)
	}
	if !b.OwnedBy(customerID) {
		return apperror.Forbidden("you can only manage your own appointments")
	}
	return nil
}

func parseDateTime(dateStr, timeStr string) (time.Time, slot.TimeOfDay, error) {
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return time.Time{}, 0, apperror.InvalidRequest("invalid appointment date %q", dateStr)
	}
	start, err := slot.ParseTimeOfDay(timeStr)
	if err != nil {
		return time.Time{}, 0, apperror.InvalidRequest("invalid appointment time %q", timeStr)
	}
	return date, start, nil
}
