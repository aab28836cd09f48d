package entity

import "github.com/google/uuid"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Passenger is one (seat, traveller) pair on a booking.
type Passenger struct {
	BaseSimple
	BookingID  uuid.UUID `db:"booking_id"`
	SeatID     uuid.UUID `db:"seat_id"`
	SeatNumber string    `db:"seat_number"`
	Name       string    `db:"name"`
	Age        int       `db:"age"`
	Gender     Gender    `db:"gender"`
}
