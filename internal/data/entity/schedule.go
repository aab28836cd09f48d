package entity

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one bus running one route on one calendar date.
// AvailableSeats is only ever mutated inside the seat claim/release
// transactions so that available = total - active claims holds.
type Schedule struct {
	Base
	BusID          uuid.UUID `db:"bus_id"`
	RouteID        uuid.UUID `db:"route_id"`
	TravelDate     time.Time `db:"travel_date"`
	DepartureTime  string    `db:"departure_time"` // HH:mm
	ArrivalTime    string    `db:"arrival_time"`   // HH:mm
	BasePrice      float64   `db:"base_price"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	IsActive       bool      `db:"is_active"`
}

// DepartureAt combines travel date and departure time into an instant.
func (s *Schedule) DepartureAt() time.Time {
	t, err := time.Parse("15:04", s.DepartureTime)
	if err != nil {
		return s.TravelDate
	}
	return time.Date(
		s.TravelDate.Year(), s.TravelDate.Month(), s.TravelDate.Day(),
		t.Hour(), t.Minute(), 0, 0, s.TravelDate.Location(),
	)
}
