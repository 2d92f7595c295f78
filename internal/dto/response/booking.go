package response

import (
	"encoding/json"
	"time"

	"barbershop-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	CustomerID      int64                `json:"customer_id"`
	ShopID          int64                `json:"shop_id"`
	ServiceID       int64                `json:"service_id"`
	EmployeeID      *int64               `json:"employee_id"`
	Date            string               `json:"appointment_date"`
	Time            string               `json:"appointment_time"`
	EndTime         string               `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          entity.BookingStatus `json:"status"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	// Directory details, left empty when the lookup fails.
	ShopName     string       `json:"shop_name,omitempty"`
	ShopAddress  string       `json:"shop_address,omitempty"`
	ShopPhone    string       `json:"shop_phone,omitempty"`
	ServiceName  string       `json:"service_name,omitempty"`
	ServicePrice *json.Number `json:"service_price,omitempty"`
	EmployeeName string       `json:"employee_name,omitempty"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		CustomerID:      b.CustomerID,
		ShopID:          b.ShopID,
		ServiceID:       b.ServiceID,
		EmployeeID:      b.EmployeeID,
		Date:            b.Date.Format(time.DateOnly),
		Time:            b.StartTime.String(),
		EndTime:         b.EndTime().String(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
