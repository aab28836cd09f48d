package usecase

import (
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Catalog  CatalogService
	Search   SearchService
	Schedule ScheduleService
	Booking  BookingService
}

func NewService(repo *repository.Repository, seatMaps *cache.SeatMapCache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		User:     NewUserService(repo.User, log),
		Catalog:  NewCatalogService(repo, log),
		Search:   NewSearchService(repo, log),
		Schedule: NewScheduleService(repo, seatMaps, log),
		Booking:  NewBookingService(repo, seatMaps, config, log),
	}
}
