package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)
	FindByCities(ctx context.Context, fromCity, toCity string) ([]*entity.Route, error)
	FindPopular(ctx context.Context, limit int) ([]*entity.Route, error)
	Update(ctx context.Context, route *entity.Route) error
}

type routeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRouteRepository(db database.PgxIface, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

const routeColumns = `id, from_city, from_state, to_city, to_state, distance_km,
	estimated_minutes, route_type, is_active, is_popular, created_at, updated_at`

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (id, from_city, from_state, to_city, to_state, distance_km,
		                    estimated_minutes, route_type, is_active, is_popular,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		route.ID,
		route.FromCity,
		route.FromState,
		route.ToCity,
		route.ToState,
		route.DistanceKM,
		route.EstimatedMinutes,
		route.RouteType,
		route.IsActive,
		route.IsPopular,
		route.CreatedAt,
		route.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("from", route.FromCity),
			zap.String("to", route.ToCity),
		)
		return fmt.Errorf("create route %s-%s: %w", route.FromCity, route.ToCity, err)
	}

	return nil
}

func (r *routeRepository) scanRoute(rows pgx.Rows) (*entity.Route, error) {
	var route entity.Route
	err := rows.Scan(
		&route.ID,
		&route.FromCity,
		&route.FromState,
		&route.ToCity,
		&route.ToState,
		&route.DistanceKM,
		&route.EstimatedMinutes,
		&route.RouteType,
		&route.IsActive,
		&route.IsPopular,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	var route entity.Route
	err := r.db.QueryRow(ctx, query, id).Scan(
		&route.ID,
		&route.FromCity,
		&route.FromState,
		&route.ToCity,
		&route.ToState,
		&route.DistanceKM,
		&route.EstimatedMinutes,
		&route.RouteType,
		&route.IsActive,
		&route.IsPopular,
		&route.CreatedAt,
		&route.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route by ID",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return nil, fmt.Errorf("find route by ID %s: %w", id.String(), err)
	}

	return &route, nil
}

func (r *routeRepository) FindByCities(ctx context.Context, fromCity, toCity string) ([]*entity.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE LOWER(from_city) = LOWER($1) AND LOWER(to_city) = LOWER($2) AND is_active = TRUE
		ORDER BY distance_km
	`

	rows, err := r.db.Query(ctx, query, fromCity, toCity)
	if err != nil {
		r.log.Error("Failed to find routes by cities",
			zap.Error(err),
			zap.String("from", fromCity),
			zap.String("to", toCity),
		)
		return nil, fmt.Errorf("find routes %s-%s: %w", fromCity, toCity, err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func (r *routeRepository) FindPopular(ctx context.Context, limit int) ([]*entity.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE is_active = TRUE AND is_popular = TRUE
		ORDER BY from_city, to_city
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find popular routes", zap.Error(err))
		return nil, fmt.Errorf("find popular routes: %w", err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func (r *routeRepository) Update(ctx context.Context, route *entity.Route) error {
	query := `
		UPDATE routes
		SET distance_km = $2, estimated_minutes = $3, route_type = $4,
		    is_active = $5, is_popular = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		route.ID,
		route.DistanceKM,
		route.EstimatedMinutes,
		route.RouteType,
		route.IsActive,
		route.IsPopular,
		route.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update route",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		return fmt.Errorf("update route %s: %w", route.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", route.ID.String())
	}

	return nil
}
