package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PassengerRepository interface {
	CreateBatch(ctx context.Context, passengers []*entity.Passenger) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error)
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error
}

type passengerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPassengerRepository(db database.PgxIface, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) CreateBatch(ctx context.Context, passengers []*entity.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}

	query := `
		INSERT INTO booking_passengers (id, booking_id, seat_id, seat_number, name, age, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, p := range passengers {
		_, err := r.db.Exec(ctx, query,
			p.ID,
			p.BookingID,
			p.SeatID,
			p.SeatNumber,
			p.Name,
			p.Age,
			p.Gender,
			p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create passenger",
				zap.Error(err),
				zap.String("booking_id", p.BookingID.String()),
				zap.String("seat_number", p.SeatNumber),
			)
			return fmt.Errorf("create passenger for booking %s seat %s: %w",
				p.BookingID.String(), p.SeatNumber, err)
		}
	}

	return nil
}

func (r *passengerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	query := `
		SELECT id, booking_id, seat_id, seat_number, name, age, gender, created_at
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY created_at, seat_number
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find passengers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find passengers by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		var p entity.Passenger
		err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.SeatID,
			&p.SeatNumber,
			&p.Name,
			&p.Age,
			&p.Gender,
			&p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, &p)
	}

	return passengers, nil
}

func (r *passengerRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	query := `DELETE FROM booking_passengers WHERE booking_id = $1`

	_, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to delete passengers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("delete passengers by booking ID %s: %w", bookingID.String(), err)
	}

	return nil
}
