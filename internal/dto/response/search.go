package response

type SearchResultResponse struct {
	ScheduleID     string   `json:"schedule_id"`
	OperatorName   string   `json:"operator_name"`
	BusType        string   `json:"bus_type"`
	Amenities      []string `json:"amenities,omitempty"`
	DepartureTime  string   `json:"departure_time"`
	ArrivalTime    string   `json:"arrival_time"`
	Duration       string   `json:"duration"`
	TravelDate     string   `json:"travel_date"`
	BasePrice      float64  `json:"base_price"`
	AvailableSeats int      `json:"available_seats"`
}

type SearchResponse struct {
	Route        RouteResponse          `json:"route"`
	Schedules    []SearchResultResponse `json:"schedules"`
	TotalResults int                    `json:"total_results"`
}
