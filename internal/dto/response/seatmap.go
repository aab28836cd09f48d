package response

// SeatMapSeat is one cell in the rendered layout. Price is the schedule
// base price plus the seat's category delta.
type SeatMapSeat struct {
	SeatID     string  `json:"seat_id"`
	SeatNumber string  `json:"seat_number"`
	SeatType   string  `json:"seat_type"`
	Price      float64 `json:"price"`
	IsBooked   bool    `json:"is_booked"`
}

type SeatMapResponse struct {
	ScheduleID     string          `json:"schedule_id"`
	Bus            BusResponse     `json:"bus"`
	AvailableSeats int             `json:"available_seats"`
	SeatRows       [][]SeatMapSeat `json:"seat_rows"`
}
