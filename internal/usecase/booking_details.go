package usecase

import (
	"context"

	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/dto/response"

	"go.uber.org/zap"
)

// bookingDetails fills directory names into booking responses. Lookups are
// memoized for one request; a failed lookup is remembered as a miss and leaves
// the matching fields empty.
type bookingDetails struct {
	dir       directory.Client
	log       *zap.Logger
	shops     map[int64]*directory.Shop
	services  map[int64]*directory.Service
	employees map[int64]*directory.Employee
}

func (s *bookingService) details() *bookingDetails {
	return &bookingDetails{
		dir:       s.directory,
		log:       s.log,
		shops:     make(map[int64]*directory.Shop),
		services:  make(map[int64]*directory.Service),
		employees: make(map[int64]*directory.Employee),
	}
}

func (d *bookingDetails) response(ctx context.Context, b *entity.Booking) response.BookingResponse {
	resp := response.BookingToResponse(b)

	if shop := lookup(ctx, d, d.shops, b.ShopID, "shop", d.dir.GetShop); shop != nil {
		resp.ShopName = shop.Name
		resp.ShopAddress = shop.Address
		resp.ShopPhone = shop.Phone
	}
	if service := lookup(ctx, d, d.services, b.ServiceID, "service", d.dir.GetService); service != nil {
		resp.ServiceName = service.Name
		if service.Price != "" {
			price := service.Price
			resp.ServicePrice = &price
		}
	}
	if b.EmployeeID != nil {
		if employee := lookup(ctx, d, d.employees, *b.EmployeeID, "employee", d.dir.GetEmployee); employee != nil {
			resp.EmployeeName = employee.Name
		}
	}

	return resp
}

func (d *bookingDetails) responses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	out := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = d.response(ctx, b)
	}
	return out
}

func lookup[T any](ctx context.Context, d *bookingDetails, memo map[int64]*T, id int64, resource string, fetch func(context.Context, int64) (*T, error)) *T {
	if v, ok := memo[id]; ok {
		return v
	}
	v, err := fetch(ctx, id)
	if err != nil {
		d.log.Warn("Directory details unavailable",
			zap.String("resource", resource),
			zap.Int64("id", id),
			zap.Error(err),
		)
		v = nil
	}
	memo[id] = v
	return v
}
