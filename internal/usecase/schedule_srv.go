package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	// GetSeatMap renders the bus layout for a schedule with live
	// per-seat availability. Served from cache when fresh.
	GetSeatMap(ctx context.Context, scheduleID string) (*response.SeatMapResponse, error)

	CreateSchedule(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error)
	GetSchedule(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error)
	DeactivateSchedule(ctx context.Context, scheduleID string) error
}

type scheduleService struct {
	repo     *repository.Repository
	seatMaps *cache.SeatMapCache
	log      *zap.Logger
}

func NewScheduleService(repo *repository.Repository, seatMaps *cache.SeatMapCache, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:     repo,
		seatMaps: seatMaps,
		log:      log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) GetSeatMap(ctx context.Context, scheduleID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	var cached response.SeatMapResponse
	if s.seatMaps.Get(ctx, id, &cached) {
		return &cached, nil
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s not found", scheduleID)
	}

	bus, err := s.repo.Bus.FindByID(ctx, schedule.BusID)
	if err != nil {
		return nil, fmt.Errorf("find bus for schedule: %w", err)
	}
	if bus == nil {
		return nil, fmt.Errorf("bus %s not found", schedule.BusID.String())
	}

	seats, err := s.repo.Seat.FindByBusID(ctx, schedule.BusID)
	if err != nil {
		s.log.Error("Failed to load seats for bus",
			zap.Error(err),
			zap.String("bus_id", schedule.BusID.String()),
		)
		return nil, fmt.Errorf("load seats: %w", err)
	}

	claims, err := s.repo.SeatClaim.FindActiveBySchedule(ctx, id)
	if err != nil {
		s.log.Error("Failed to load active claims",
			zap.Error(err),
			zap.String("schedule_id", scheduleID),
		)
		return nil, fmt.Errorf("load active claims: %w", err)
	}

	claimed := make(map[uuid.UUID]bool, len(claims))
	for _, claim := range claims {
		claimed[claim.SeatID] = true
	}

	// Seats arrive ordered by row then column; lay them out row by row.
	rows := make([][]response.SeatMapSeat, bus.LayoutRows)
	for i := range rows {
		rows[i] = make([]response.SeatMapSeat, 0, bus.LayoutColumns)
	}
	for _, seat := range seats {
		if seat.SeatRow < 1 || seat.SeatRow > bus.LayoutRows {
			continue
		}
		rows[seat.SeatRow-1] = append(rows[seat.SeatRow-1], response.SeatMapSeat{
			SeatID:     seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			SeatType:   string(seat.SeatType),
			Price:      schedule.BasePrice + seat.PriceDelta,
			IsBooked:   claimed[seat.ID],
		})
	}

	seatMap := &response.SeatMapResponse{
		ScheduleID:     scheduleID,
		Bus:            response.BusToResponse(bus),
		AvailableSeats: schedule.AvailableSeats,
		SeatRows:       rows,
	}

	s.seatMaps.Set(ctx, id, seatMap)

	return seatMap, nil
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create schedule validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus ID format %s: %w", req.BusID, err)
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", req.RouteID, err)
	}

	bus, err := s.repo.Bus.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("find bus: %w", err)
	}
	if bus == nil {
		return nil, fmt.Errorf("bus %s not found", req.BusID)
	}
	if !bus.IsActive {
		return nil, fmt.Errorf("bus %s is inactive", bus.BusNumber)
	}

	route, err := s.repo.Route.FindByID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("find route: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %s not found", req.RouteID)
	}

	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", req.TravelDate, err)
	}

	// One bus cannot run two overlapping trips; a same-day schedule for
	// the bus blocks the new one.
	existing, err := s.repo.Schedule.FindByBusAndDate(ctx, busID, travelDate)
	if err != nil {
		return nil, fmt.Errorf("check bus availability: %w", err)
	}
	for _, other := range existing {
		if other.IsActive && other.DepartureTime == req.DepartureTime {
			return nil, fmt.Errorf("bus %s already has a departure at %s on %s",
				bus.BusNumber, req.DepartureTime, req.TravelDate)
		}
	}

	now := time.Now()
	schedule := &entity.Schedule{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusID:          busID,
		RouteID:        routeID,
		TravelDate:     travelDate,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		BasePrice:      req.BasePrice,
		TotalSeats:     bus.TotalSeats,
		AvailableSeats: bus.TotalSeats,
		IsActive:       true,
	}

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("bus_id", req.BusID),
			zap.String("route_id", req.RouteID),
		)
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.log.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("bus_number", bus.BusNumber),
		zap.String("travel_date", req.TravelDate),
		zap.String("departure_time", req.DepartureTime),
	)

	resp := response.ScheduleToResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s not found", scheduleID)
	}

	resp := response.ScheduleToResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find schedule: %w", err)
	}
	if schedule == nil {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}

	if err := s.repo.Schedule.Deactivate(ctx, id); err != nil {
		s.log.Error("Failed to deactivate schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID),
		)
		return fmt.Errorf("deactivate schedule: %w", err)
	}

	s.seatMaps.Invalidate(ctx, id)

	s.log.Info("Schedule deactivated", zap.String("schedule_id", scheduleID))

	return nil
}
