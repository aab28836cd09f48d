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

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByBusID(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const seatColumns = `id, bus_id, seat_number, seat_row, seat_column, seat_type, price_delta, created_at`

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `
		INSERT INTO seats (id, bus_id, seat_number, seat_row, seat_column, seat_type, price_delta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, seat := range seats {
		_, err := r.db.Exec(ctx, query,
			seat.ID,
			seat.BusID,
			seat.SeatNumber,
			seat.SeatRow,
			seat.SeatColumn,
			seat.SeatType,
			seat.PriceDelta,
			seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create seat",
				zap.Error(err),
				zap.String("bus_id", seat.BusID.String()),
				zap.String("seat_number", seat.SeatNumber),
			)
			return fmt.Errorf("create seat %s for bus %s: %w", seat.SeatNumber, seat.BusID.String(), err)
		}
	}

	return nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	var seat entity.Seat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&seat.ID,
		&seat.BusID,
		&seat.SeatNumber,
		&seat.SeatRow,
		&seat.SeatColumn,
		&seat.SeatType,
		&seat.PriceDelta,
		&seat.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return nil, fmt.Errorf("find seat by ID %s: %w", id.String(), err)
	}

	return &seat, nil
}

func (r *seatRepository) FindByBusID(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE bus_id = $1
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, busID)
	if err != nil {
		r.log.Error("Failed to find seats by bus ID",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
		)
		return nil, fmt.Errorf("find seats by bus ID %s: %w", busID.String(), err)
	}
	defer rows.Close()

	return r.collectSeats(rows)
}

func (r *seatRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find seats by IDs", zap.Error(err))
		return nil, fmt.Errorf("find seats by IDs: %w", err)
	}
	defer rows.Close()

	return r.collectSeats(rows)
}

func (r *seatRepository) collectSeats(rows pgx.Rows) ([]*entity.Seat, error) {
	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.BusID,
			&seat.SeatNumber,
			&seat.SeatRow,
			&seat.SeatColumn,
			&seat.SeatType,
			&seat.PriceDelta,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
