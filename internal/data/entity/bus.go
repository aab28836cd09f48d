package entity

type BusType string

const (
	BusTypeAC          BusType = "AC"
	BusTypeNonAC       BusType = "Non-AC"
	BusTypeSleeper     BusType = "Sleeper"
	BusTypeSemiSleeper BusType = "Semi-Sleeper"
	BusTypeVolvo       BusType = "Volvo"
)

type Bus struct {
	Base
	OperatorName       string   `db:"operator_name"`
	BusNumber          string   `db:"bus_number"`
	BusType            BusType  `db:"bus_type"`
	RegistrationNumber string   `db:"registration_number"`
	TotalSeats         int      `db:"total_seats"`
	LayoutRows         int      `db:"layout_rows"`
	LayoutColumns      int      `db:"layout_columns"`
	Amenities          []string `db:"amenities"`
	IsActive           bool     `db:"is_active"`
}
