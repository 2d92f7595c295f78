package request

type CreateBookingRequest struct {
	ShopID     int64   `json:"shop_id" validate:"required,gt=0"`
	ServiceID  int64   `json:"service_id" validate:"required,gt=0"`
	EmployeeID *int64  `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Date       string  `json:"appointment_date" validate:"required,isodate"`
	Time       string  `json:"appointment_time" validate:"required,clock"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type RescheduleBookingRequest struct {
	Date       string  `json:"appointment_date" validate:"required,isodate"`
	Time       string  `json:"appointment_time" validate:"required,clock"`
	EmployeeID *int64  `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
