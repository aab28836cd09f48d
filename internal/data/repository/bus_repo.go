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

type BusRepository interface {
	Create(ctx context.Context, bus *entity.Bus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error)
	FindByBusNumber(ctx context.Context, busNumber string) (*entity.Bus, error)
	FindAllActive(ctx context.Context, limit, offset int) ([]*entity.Bus, error)
	Update(ctx context.Context, bus *entity.Bus) error
}

type busRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBusRepository(db database.PgxIface, log *zap.Logger) BusRepository {
	return &busRepository{
		db:  db,
		log: log.With(zap.String("repository", "bus")),
	}
}

const busColumns = `id, operator_name, bus_number, bus_type, registration_number,
	total_seats, layout_rows, layout_columns, amenities, is_active, created_at, updated_at`

func (r *busRepository) Create(ctx context.Context, bus *entity.Bus) error {
	query := `
		INSERT INTO buses (id, operator_name, bus_number, bus_type, registration_number,
		                   total_seats, layout_rows, layout_columns, amenities, is_active,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		bus.ID,
		bus.OperatorName,
		bus.BusNumber,
		bus.BusType,
		bus.RegistrationNumber,
		bus.TotalSeats,
		bus.LayoutRows,
		bus.LayoutColumns,
		bus.Amenities,
		bus.IsActive,
		bus.CreatedAt,
		bus.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create bus",
			zap.Error(err),
			zap.String("bus_number", bus.BusNumber),
		)
		return fmt.Errorf("create bus %s: %w", bus.BusNumber, err)
	}

	return nil
}

func (r *busRepository) scanBus(row pgx.Row) (*entity.Bus, error) {
	var bus entity.Bus
	err := row.Scan(
		&bus.ID,
		&bus.OperatorName,
		&bus.BusNumber,
		&bus.BusType,
		&bus.RegistrationNumber,
		&bus.TotalSeats,
		&bus.LayoutRows,
		&bus.LayoutColumns,
		&bus.Amenities,
		&bus.IsActive,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bus, nil
}

func (r *busRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`

	bus, err := r.scanBus(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find bus by ID",
			zap.Error(err),
			zap.String("bus_id", id.String()),
		)
		return nil, fmt.Errorf("find bus by ID %s: %w", id.String(), err)
	}

	return bus, nil
}

func (r *busRepository) FindByBusNumber(ctx context.Context, busNumber string) (*entity.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE bus_number = $1`

	bus, err := r.scanBus(r.db.QueryRow(ctx, query, busNumber))
	if err != nil {
		r.log.Error("Failed to find bus by number",
			zap.Error(err),
			zap.String("bus_number", busNumber),
		)
		return nil, fmt.Errorf("find bus by number %s: %w", busNumber, err)
	}

	return bus, nil
}

func (r *busRepository) FindAllActive(ctx context.Context, limit, offset int) ([]*entity.Bus, error) {
	query := `
		SELECT ` + busColumns + `
		FROM buses
		WHERE is_active = TRUE
		ORDER BY operator_name, bus_number
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list active buses", zap.Error(err))
		return nil, fmt.Errorf("list active buses: %w", err)
	}
	defer rows.Close()

	var buses []*entity.Bus
	for rows.Next() {
		var bus entity.Bus
		err := rows.Scan(
			&bus.ID,
			&bus.OperatorName,
			&bus.BusNumber,
			&bus.BusType,
			&bus.RegistrationNumber,
			&bus.TotalSeats,
			&bus.LayoutRows,
			&bus.LayoutColumns,
			&bus.Amenities,
			&bus.IsActive,
			&bus.CreatedAt,
			&bus.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan bus row", zap.Error(err))
			return nil, fmt.Errorf("scan bus row: %w", err)
		}
		buses = append(buses, &bus)
	}

	return buses, nil
}

func (r *busRepository) Update(ctx context.Context, bus *entity.Bus) error {
	query := `
		UPDATE buses
		SET operator_name = $2, bus_type = $3, amenities = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		bus.ID,
		bus.OperatorName,
		bus.BusType,
		bus.Amenities,
		bus.IsActive,
		bus.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update bus",
			zap.Error(err),
			zap.String("bus_id", bus.ID.String()),
		)
		return fmt.Errorf("update bus %s: %w", bus.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bus %s not found", bus.ID.String())
	}

	return nil
}
