package response

import (
	"bus-booking/internal/data/entity"
)

type ScheduleResponse struct {
	ID             string  `json:"id"`
	BusID          string  `json:"bus_id"`
	RouteID        string  `json:"route_id"`
	TravelDate     string  `json:"travel_date"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	BasePrice      float64 `json:"base_price"`
	TotalSeats     int     `json:"total_seats"`
	AvailableSeats int     `json:"available_seats"`
	IsActive       bool    `json:"is_active"`
}

func ScheduleToResponse(schedule *entity.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:             schedule.ID.String(),
		BusID:          schedule.BusID.String(),
		RouteID:        schedule.RouteID.String(),
		TravelDate:     schedule.TravelDate.Format("2006-01-02"),
		DepartureTime:  schedule.DepartureTime,
		ArrivalTime:    schedule.ArrivalTime,
		BasePrice:      schedule.BasePrice,
		TotalSeats:     schedule.TotalSeats,
		AvailableSeats: schedule.AvailableSeats,
		IsActive:       schedule.IsActive,
	}
}
