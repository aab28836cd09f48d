package entity

import "github.com/google/uuid"

type SeatType string

const (
	SeatTypeWindow SeatType = "window"
	SeatTypeAisle  SeatType = "aisle"
	SeatTypeMiddle SeatType = "middle"
)

// Seat is one physical position on a bus. Layout is fixed when the bus
// is registered; seats are never mutated afterwards.
type Seat struct {
	BaseSimple
	BusID      uuid.UUID `db:"bus_id"`
	SeatNumber string    `db:"seat_number"` // A1, A2, B1, etc.
	SeatRow    int       `db:"seat_row"`    // 1, 2, 3, etc.
	SeatColumn int       `db:"seat_column"` // 1, 2, 3, etc.
	SeatType   SeatType  `db:"seat_type"`
	PriceDelta float64   `db:"price_delta"` // added on top of schedule base price
}
