package response

import (
	"bus-booking/internal/data/entity"
)

type BusResponse struct {
	ID                 string   `json:"id"`
	OperatorName       string   `json:"operator_name"`
	BusNumber          string   `json:"bus_number"`
	BusType            string   `json:"bus_type"`
	RegistrationNumber string   `json:"registration_number,omitempty"`
	TotalSeats         int      `json:"total_seats"`
	LayoutRows         int      `json:"layout_rows"`
	LayoutColumns      int      `json:"layout_columns"`
	Amenities          []string `json:"amenities,omitempty"`
	IsActive           bool     `json:"is_active"`
}

type RouteResponse struct {
	ID               string `json:"id"`
	FromCity         string `json:"from_city"`
	FromState        string `json:"from_state"`
	ToCity           string `json:"to_city"`
	ToState          string `json:"to_state"`
	DistanceKM       int    `json:"distance_km"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	RouteType        string `json:"route_type"`
	IsPopular        bool   `json:"is_popular"`
}

func BusToResponse(bus *entity.Bus) BusResponse {
	return BusResponse{
		ID:                 bus.ID.String(),
		OperatorName:       bus.OperatorName,
		BusNumber:          bus.BusNumber,
		BusType:            string(bus.BusType),
		RegistrationNumber: bus.RegistrationNumber,
		TotalSeats:         bus.TotalSeats,
		LayoutRows:         bus.LayoutRows,
		LayoutColumns:      bus.LayoutColumns,
		Amenities:          bus.Amenities,
		IsActive:           bus.IsActive,
	}
}

func RouteToResponse(route *entity.Route) RouteResponse {
	return RouteResponse{
		ID:               route.ID.String(),
		FromCity:         route.FromCity,
		FromState:        route.FromState,
		ToCity:           route.ToCity,
		ToState:          route.ToState,
		DistanceKM:       route.DistanceKM,
		EstimatedMinutes: route.EstimatedMinutes,
		RouteType:        string(route.RouteType),
		IsPopular:        route.IsPopular,
	}
}
