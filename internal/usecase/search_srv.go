package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

const popularRoutesLimit = 8

type SearchService interface {
	// SearchSchedules lists bookable departures between two cities on a
	// date. Departed and inactive schedules are filtered out.
	SearchSchedules(ctx context.Context, req *request.SearchSchedulesRequest) ([]response.SearchResponse, error)

	GetPopularRoutes(ctx context.Context) ([]response.RouteResponse, error)
}

type searchService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSearchService(repo *repository.Repository, log *zap.Logger) SearchService {
	return &searchService{
		repo: repo,
		log:  log.With(zap.String("service", "search")),
	}
}

func (s *searchService) SearchSchedules(ctx context.Context, req *request.SearchSchedulesRequest) ([]response.SearchResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Search validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", req.Date, err)
	}

	routes, err := s.repo.Route.FindByCities(ctx, req.From, req.To)
	if err != nil {
		s.log.Error("Failed to search routes",
			zap.Error(err),
			zap.String("from", req.From),
			zap.String("to", req.To),
		)
		return nil, fmt.Errorf("search routes: %w", err)
	}

	now := time.Now()
	results := make([]response.SearchResponse, 0, len(routes))
	for _, route := range routes {
		schedules, err := s.repo.Schedule.FindByRouteAndDate(ctx, route.ID, date)
		if err != nil {
			s.log.Error("Failed to load schedules for route",
				zap.Error(err),
				zap.String("route_id", route.ID.String()),
			)
			return nil, fmt.Errorf("load schedules: %w", err)
		}

		entries := make([]response.SearchResultResponse, 0, len(schedules))
		for _, schedule := range schedules {
			if !schedule.IsActive || !schedule.DepartureAt().After(now) {
				continue
			}

			bus, err := s.repo.Bus.FindByID(ctx, schedule.BusID)
			if err != nil {
				return nil, fmt.Errorf("load bus for schedule: %w", err)
			}
			if bus == nil || !bus.IsActive {
				continue
			}

			entries = append(entries, response.SearchResultResponse{
				ScheduleID:     schedule.ID.String(),
				OperatorName:   bus.OperatorName,
				BusType:        string(bus.BusType),
				Amenities:      bus.Amenities,
				DepartureTime:  schedule.DepartureTime,
				ArrivalTime:    schedule.ArrivalTime,
				Duration:       utils.FormatDuration(route.EstimatedMinutes),
				TravelDate:     schedule.TravelDate.Format("2006-01-02"),
				BasePrice:      schedule.BasePrice,
				AvailableSeats: schedule.AvailableSeats,
			})
		}

		if len(entries) == 0 {
			continue
		}

		results = append(results, response.SearchResponse{
			Route:        response.RouteToResponse(route),
			Schedules:    entries,
			TotalResults: len(entries),
		})
	}

	s.log.Info("Schedule search completed",
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.String("date", req.Date),
		zap.Int("route_count", len(results)),
	)

	return results, nil
}

func (s *searchService) GetPopularRoutes(ctx context.Context) ([]response.RouteResponse, error) {
	routes, err := s.repo.Route.FindPopular(ctx, popularRoutesLimit)
	if err != nil {
		s.log.Error("Failed to load popular routes", zap.Error(err))
		return nil, fmt.Errorf("load popular routes: %w", err)
	}

	out := make([]response.RouteResponse, len(routes))
	for i, route := range routes {
		out[i] = response.RouteToResponse(route)
	}

	return out, nil
}
