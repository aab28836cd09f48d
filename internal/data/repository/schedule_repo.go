package repository

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	FindByRouteAndDate(ctx context.Context, routeID uuid.UUID, date time.Time) ([]*entity.Schedule, error)
	FindByBusAndDate(ctx context.Context, busID uuid.UUID, date time.Time) ([]*entity.Schedule, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

const scheduleColumns = `id, bus_id, route_id, travel_date, departure_time, arrival_time,
	base_price, total_seats, available_seats, is_active, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		INSERT INTO schedules (id, bus_id, route_id, travel_date, departure_time, arrival_time,
		                       base_price, total_seats, available_seats, is_active,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.BusID,
		schedule.RouteID,
		schedule.TravelDate,
		schedule.DepartureTime,
		schedule.ArrivalTime,
		schedule.BasePrice,
		schedule.TotalSeats,
		schedule.AvailableSeats,
		schedule.IsActive,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("bus_id", schedule.BusID.String()),
			zap.String("route_id", schedule.RouteID.String()),
			zap.Time("travel_date", schedule.TravelDate),
		)
		return fmt.Errorf("create schedule for bus %s route %s: %w",
			schedule.BusID.String(), schedule.RouteID.String(), err)
	}

	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	var schedule entity.Schedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.BusID,
		&schedule.RouteID,
		&schedule.TravelDate,
		&schedule.DepartureTime,
		&schedule.ArrivalTime,
		&schedule.BasePrice,
		&schedule.TotalSeats,
		&schedule.AvailableSeats,
		&schedule.IsActive,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return &schedule, nil
}

func (r *scheduleRepository) FindByRouteAndDate(ctx context.Context, routeID uuid.UUID, date time.Time) ([]*entity.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE route_id = $1 AND travel_date = $2 AND is_active = TRUE
		ORDER BY departure_time
	`

	rows, err := r.db.Query(ctx, query, routeID, date)
	if err != nil {
		r.log.Error("Failed to find schedules by route and date",
			zap.Error(err),
			zap.String("route_id", routeID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find schedules by route %s date %s: %w",
			routeID.String(), date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return r.collectSchedules(rows)
}

func (r *scheduleRepository) FindByBusAndDate(ctx context.Context, busID uuid.UUID, date time.Time) ([]*entity.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE bus_id = $1 AND travel_date = $2
		ORDER BY departure_time
	`

	rows, err := r.db.Query(ctx, query, busID, date)
	if err != nil {
		r.log.Error("Failed to find schedules by bus and date",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find schedules by bus %s date %s: %w",
			busID.String(), date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return r.collectSchedules(rows)
}

func (r *scheduleRepository) collectSchedules(rows pgx.Rows) ([]*entity.Schedule, error) {
	var schedules []*entity.Schedule
	for rows.Next() {
		var schedule entity.Schedule
		err := rows.Scan(
			&schedule.ID,
			&schedule.BusID,
			&schedule.RouteID,
			&schedule.TravelDate,
			&schedule.DepartureTime,
			&schedule.ArrivalTime,
			&schedule.BasePrice,
			&schedule.TotalSeats,
			&schedule.AvailableSeats,
			&schedule.IsActive,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// Deactivate takes a schedule off sale. Schedules are never deleted.
func (r *scheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE schedules SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate schedule",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return fmt.Errorf("deactivate schedule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s not found", id.String())
	}

	return nil
}
