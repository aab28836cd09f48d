package repository

import (
	"bus-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Bus       BusRepository
	Route     RouteRepository
	Seat      SeatRepository
	Schedule  ScheduleRepository
	Booking   BookingRepository
	Passenger PassengerRepository
	SeatClaim SeatClaimRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Bus:       NewBusRepository(db, log),
		Route:     NewRouteRepository(db, log),
		Seat:      NewSeatRepository(db, log),
		Schedule:  NewScheduleRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Passenger: NewPassengerRepository(db, log),
		SeatClaim: NewSeatClaimRepository(db, log),
	}
}
