package response

import (
	"time"

	"bus-booking/internal/data/entity"
)

type PassengerResponse struct {
	SeatNumber string `json:"seat_number"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	UserID        string               `json:"user_id"`
	ScheduleID    string               `json:"schedule_id"`
	OperatorName  string               `json:"operator_name,omitempty"`
	BusType       string               `json:"bus_type,omitempty"`
	FromCity      string               `json:"from_city,omitempty"`
	ToCity        string               `json:"to_city,omitempty"`
	TravelDate    string               `json:"travel_date,omitempty"`
	DepartureTime string               `json:"departure_time,omitempty"`
	TotalSeats    int                  `json:"total_seats"`
	TotalAmount   float64              `json:"total_amount"`
	Status        entity.BookingStatus `json:"status"`
	PaymentRef    *string              `json:"payment_ref,omitempty"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	Passengers    []PassengerResponse  `json:"passengers,omitempty"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
	RefundAmount  float64              `json:"refund_amount,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func PassengersToResponse(passengers []*entity.Passenger) []PassengerResponse {
	out := make([]PassengerResponse, len(passengers))
	for i, p := range passengers {
		out[i] = PassengerResponse{
			SeatNumber: p.SeatNumber,
			Name:       p.Name,
			Age:        p.Age,
			Gender:     string(p.Gender),
		}
	}
	return out
}
