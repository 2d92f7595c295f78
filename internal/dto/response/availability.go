package response

const (
	SlotReasonAvailable = "available"
	SlotReasonBooked    = "booked"
)

type TimeSlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}
