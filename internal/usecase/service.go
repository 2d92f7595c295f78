package usecase

import (
	"errors"
	"time"

	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/pkg/apperror"
	"barbershop-booking/pkg/database"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("barbershop-booking/usecase")

// Options carries the engine settings shared by every service.
type Options struct {
	SlotGranularityMinutes int
	Location               *time.Location
	Now                    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SlotGranularityMinutes <= 0 {
		o.SlotGranularityMinutes = 15
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Service struct {
	Availability AvailabilityService
	Booking      BookingService
}

func NewService(repo *repository.Repository, dir directory.Client, opts Options, log *zap.Logger) *Service {
	return &Service{
		Availability: NewAvailabilityService(repo.Booking, dir, opts, log),
		Booking:      NewBookingService(repo.Booking, dir, opts, log),
	}
}

// classify keeps typed errors. Untyped errors are an outage when the store could
// not be reached or timed out, and an internal fault otherwise.
func classify(message string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if database.IsTransient(err) {
		return apperror.Unavailable(message, err)
	}
	return apperror.Internal("unexpected booking store failure", err)
}

// logFailure writes configuration and infrastructure faults as errors so they alert;
// caller mistakes stay at warn.
func logFailure(log *zap.Logger, operation string, err error, fields ...zap.Field) {
	kind := apperror.KindOf(err)
	fields = append(fields,
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", kind.String()),
	)
	if apperror.IsAlert(kind) {
		log.Error("Failed to "+operation, fields...)
		return
	}
	log.Warn(operation+" rejected", fields...)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperror.KindOf(err).String())
	}
	span.End()
}
