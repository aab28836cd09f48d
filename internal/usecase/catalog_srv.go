package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBusSeats caps the generated layout; intercity coaches do not run
// bigger than this.
const maxBusSeats = 60

type CatalogService interface {
	// CreateBus registers a bus and generates its full seat layout from
	// the row/column dimensions.
	CreateBus(ctx context.Context, req *request.CreateBusRequest) (*response.BusResponse, error)
	UpdateBus(ctx context.Context, busID string, req *request.UpdateBusRequest) (*response.BusResponse, error)
	GetBus(ctx context.Context, busID string) (*response.BusResponse, error)
	ListBuses(ctx context.Context, req *request.PaginatedRequest) ([]response.BusResponse, error)

	CreateRoute(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error)
	GetRoute(ctx context.Context, routeID string) (*response.RouteResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) CreateBus(ctx context.Context, req *request.CreateBusRequest) (*response.BusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create bus validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	totalSeats := req.LayoutRows * req.LayoutColumns
	if totalSeats > maxBusSeats {
		return nil, fmt.Errorf("validation failed: layout %dx%d exceeds %d seats",
			req.LayoutRows, req.LayoutColumns, maxBusSeats)
	}

	existing, err := s.repo.Bus.FindByBusNumber(ctx, req.BusNumber)
	if err != nil {
		return nil, fmt.Errorf("check bus number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("bus number %s already registered", req.BusNumber)
	}

	now := time.Now()
	bus := &entity.Bus{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OperatorName:       req.OperatorName,
		BusNumber:          req.BusNumber,
		BusType:            entity.BusType(req.BusType),
		RegistrationNumber: req.RegistrationNumber,
		TotalSeats:         totalSeats,
		LayoutRows:         req.LayoutRows,
		LayoutColumns:      req.LayoutColumns,
		Amenities:          req.Amenities,
		IsActive:           true,
	}

	if err := s.repo.Bus.Create(ctx, bus); err != nil {
		s.log.Error("Failed to create bus",
			zap.Error(err),
			zap.String("bus_number", req.BusNumber),
		)
		return nil, fmt.Errorf("create bus: %w", err)
	}

	seats := generateSeatLayout(bus, req.WindowPriceDelta, req.AislePriceDelta, now)
	if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
		s.log.Error("Failed to create seat layout",
			zap.Error(err),
			zap.String("bus_id", bus.ID.String()),
		)
		return nil, fmt.Errorf("create seat layout: %w", err)
	}

	s.log.Info("Bus created",
		zap.String("bus_id", bus.ID.String()),
		zap.String("bus_number", bus.BusNumber),
		zap.Int("total_seats", totalSeats),
	)

	resp := response.BusToResponse(bus)
	return &resp, nil
}

// generateSeatLayout builds one seat per layout cell. Outer columns are
// window seats, the two columns flanking the center walkway are aisle
// seats, anything between is middle. Numbers run A1..A<cols>, B1.. by
// row letter.
func generateSeatLayout(bus *entity.Bus, windowDelta, aisleDelta float64, now time.Time) []*entity.Seat {
	aisleAfter := bus.LayoutColumns / 2

	seats := make([]*entity.Seat, 0, bus.LayoutRows*bus.LayoutColumns)
	for row := 1; row <= bus.LayoutRows; row++ {
		rowLetter := rune('A' + row - 1)
		for col := 1; col <= bus.LayoutColumns; col++ {
			seatType := entity.SeatTypeMiddle
			delta := 0.0
			switch {
			case col == 1 || col == bus.LayoutColumns:
				seatType = entity.SeatTypeWindow
				delta = windowDelta
			case col == aisleAfter || col == aisleAfter+1:
				seatType = entity.SeatTypeAisle
				delta = aisleDelta
			}

			seats = append(seats, &entity.Seat{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				BusID:      bus.ID,
				SeatNumber: fmt.Sprintf("%c%d", rowLetter, col),
				SeatRow:    row,
				SeatColumn: col,
				SeatType:   seatType,
				PriceDelta: delta,
			})
		}
	}

	return seats
}

func (s *catalogService) UpdateBus(ctx context.Context, busID string, req *request.UpdateBusRequest) (*response.BusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update bus validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(busID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus ID format %s: %w", busID, err)
	}

	bus, err := s.repo.Bus.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find bus: %w", err)
	}
	if bus == nil {
		return nil, fmt.Errorf("bus %s not found", busID)
	}

	if req.OperatorName != nil {
		bus.OperatorName = *req.OperatorName
	}
	if req.BusType != nil {
		bus.BusType = entity.BusType(*req.BusType)
	}
	if req.Amenities != nil {
		bus.Amenities = req.Amenities
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}
	bus.UpdatedAt = time.Now()

	if err := s.repo.Bus.Update(ctx, bus); err != nil {
		s.log.Error("Failed to update bus",
			zap.Error(err),
			zap.String("bus_id", busID),
		)
		return nil, fmt.Errorf("update bus: %w", err)
	}

	s.log.Info("Bus updated", zap.String("bus_id", busID))

	resp := response.BusToResponse(bus)
	return &resp, nil
}

func (s *catalogService) GetBus(ctx context.Context, busID string) (*response.BusResponse, error) {
	id, err := uuid.Parse(busID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus ID format %s: %w", busID, err)
	}

	bus, err := s.repo.Bus.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find bus: %w", err)
	}
	if bus == nil {
		return nil, fmt.Errorf("bus %s not found", busID)
	}

	resp := response.BusToResponse(bus)
	return &resp, nil
}

func (s *catalogService) ListBuses(ctx context.Context, req *request.PaginatedRequest) ([]response.BusResponse, error) {
	buses, err := s.repo.Bus.FindAllActive(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list buses", zap.Error(err))
		return nil, fmt.Errorf("list buses: %w", err)
	}

	out := make([]response.BusResponse, len(buses))
	for i, bus := range buses {
		out[i] = response.BusToResponse(bus)
	}

	return out, nil
}

func (s *catalogService) CreateRoute(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create route validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	routeType := entity.RouteTypeOrdinary
	if req.RouteType != "" {
		routeType = entity.RouteType(req.RouteType)
	}

	now := time.Now()
	route := &entity.Route{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FromCity:         req.FromCity,
		FromState:        req.FromState,
		ToCity:           req.ToCity,
		ToState:          req.ToState,
		DistanceKM:       req.DistanceKM,
		EstimatedMinutes: req.EstimatedMinutes,
		RouteType:        routeType,
		IsActive:         true,
		IsPopular:        req.IsPopular,
	}

	if err := s.repo.Route.Create(ctx, route); err != nil {
		s.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("from", req.FromCity),
			zap.String("to", req.ToCity),
		)
		return nil, fmt.Errorf("create route: %w", err)
	}

	s.log.Info("Route created",
		zap.String("route_id", route.ID.String()),
		zap.String("from", req.FromCity),
		zap.String("to", req.ToCity),
	)

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *catalogService) GetRoute(ctx context.Context, routeID string) (*response.RouteResponse, error) {
	id, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", routeID, err)
	}

	route, err := s.repo.Route.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find route: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %s not found", routeID)
	}

	resp := response.RouteToResponse(route)
	return &resp, nil
}
