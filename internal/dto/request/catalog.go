package request

type CreateBusRequest struct {
	OperatorName       string   `json:"operator_name" validate:"required,min=2,max=100"`
	BusNumber          string   `json:"bus_number" validate:"required,min=2,max=20"`
	BusType            string   `json:"bus_type" validate:"required,oneof=AC Non-AC Sleeper Semi-Sleeper Volvo"`
	RegistrationNumber string   `json:"registration_number" validate:"required,min=4,max=20"`
	LayoutRows         int      `json:"layout_rows" validate:"required,gte=1,lte=15"`
	LayoutColumns      int      `json:"layout_columns" validate:"required,gte=2,lte=6"`
	Amenities          []string `json:"amenities,omitempty" validate:"omitempty,dive,oneof=WiFi 'Charging Point' AC 'Water Bottle' Blanket TV GPS 'Emergency Exit'"`
	WindowPriceDelta   float64  `json:"window_price_delta" validate:"gte=0"`
	AislePriceDelta    float64  `json:"aisle_price_delta" validate:"gte=0"`
}

type UpdateBusRequest struct {
	OperatorName *string  `json:"operator_name,omitempty" validate:"omitempty,min=2,max=100"`
	BusType      *string  `json:"bus_type,omitempty" validate:"omitempty,oneof=AC Non-AC Sleeper Semi-Sleeper Volvo"`
	Amenities    []string `json:"amenities,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type CreateRouteRequest struct {
	FromCity         string `json:"from_city" validate:"required,min=2,max=60"`
	FromState        string `json:"from_state" validate:"required,min=2,max=60"`
	ToCity           string `json:"to_city" validate:"required,min=2,max=60"`
	ToState          string `json:"to_state" validate:"required,min=2,max=60"`
	DistanceKM       int    `json:"distance_km" validate:"required,gte=1"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"required,gte=30"`
	RouteType        string `json:"route_type" validate:"omitempty,oneof=Express Superfast Ordinary Luxury"`
	IsPopular        bool   `json:"is_popular"`
}

type CreateScheduleRequest struct {
	BusID         string  `json:"bus_id" validate:"required,uuid4"`
	RouteID       string  `json:"route_id" validate:"required,uuid4"`
	TravelDate    string  `json:"travel_date" validate:"required,datetime=2006-01-02"`
	DepartureTime string  `json:"departure_time" validate:"required,datetime=15:04"`
	ArrivalTime   string  `json:"arrival_time" validate:"required,datetime=15:04"`
	BasePrice     float64 `json:"base_price" validate:"required,gte=0"`
}
