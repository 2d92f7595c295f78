package adaptor

import (
	"net/http"

	"barbershop-booking/internal/usecase"
	"barbershop-booking/pkg/apperror"
	"barbershop-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(service.Availability, log),
		Booking:      NewBookingHandler(service.Booking, log),
	}
}

// writeServiceError maps a classified service error onto the response envelope.
// Services already log failures at the right level, so this only traces the mapping.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	log.Debug(operation+" failed",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", kind.String()),
		zap.Int("status", status))

	if fields := apperror.FieldsOf(err); fields != nil {
		utils.ResponseBadRequest(w, "Validation failed", fields)
		return
	}
	utils.ResponseError(w, status, apperror.Message(err))
}
