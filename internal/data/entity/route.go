package entity

type RouteType string

const (
	RouteTypeExpress   RouteType = "Express"
	RouteTypeSuperfast RouteType = "Superfast"
	RouteTypeOrdinary  RouteType = "Ordinary"
	RouteTypeLuxury    RouteType = "Luxury"
)

type Route struct {
	Base
	FromCity         string    `db:"from_city"`
	FromState        string    `db:"from_state"`
	ToCity           string    `db:"to_city"`
	ToState          string    `db:"to_state"`
	DistanceKM       int       `db:"distance_km"`
	EstimatedMinutes int       `db:"estimated_minutes"`
	RouteType        RouteType `db:"route_type"`
	IsActive         bool      `db:"is_active"`
	IsPopular        bool      `db:"is_popular"`
}
