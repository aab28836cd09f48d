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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByReference(ctx context.Context, reference string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// State machine writes. Each is conditional on the current status so
	// concurrent transitions cannot clobber each other; zero rows
	// affected maps to entity.ErrInvalidStateTransition.
	ConfirmPayment(ctx context.Context, id uuid.UUID, paymentRef string, method entity.PaymentMethod) error
	MarkCancelled(ctx context.Context, id uuid.UUID, status entity.BookingStatus, reason string, refundAmount float64) error

	// FindExpiredPending returns pending bookings whose hold window
	// elapsed before the cutoff. Used by the hold sweeper.
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, user_id, schedule_id, total_seats, total_amount, status,
	payment_ref, payment_method, contact_email, contact_phone, expires_at,
	cancellation_reason, cancelled_at, refund_amount, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, user_id, schedule_id, total_seats, total_amount,
		                      status, payment_ref, payment_method, contact_email, contact_phone,
		                      expires_at, cancellation_reason, cancelled_at, refund_amount,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.UserID,
		booking.ScheduleID,
		booking.TotalSeats,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentRef,
		booking.PaymentMethod,
		booking.ContactEmail,
		booking.ContactPhone,
		booking.ExpiresAt,
		booking.CancellationReason,
		booking.CancelledAt,
		booking.RefundAmount,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.ScheduleID,
		&booking.TotalSeats,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentRef,
		&booking.PaymentMethod,
		&booking.ContactEmail,
		&booking.ContactPhone,
		&booking.ExpiresAt,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.RefundAmount,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, reference))
	if err != nil {
		r.log.Error("Failed to find booking by reference",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find booking by reference %s: %w", reference, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) ConfirmPayment(ctx context.Context, id uuid.UUID, paymentRef string, method entity.PaymentMethod) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_ref = $3, payment_method = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`

	result, err := r.db.Exec(ctx, query,
		id,
		entity.BookingStatusConfirmed,
		paymentRef,
		method,
		entity.BookingStatusPending,
	)

	if err != nil {
		r.log.Error("Failed to confirm booking payment",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("confirm payment for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInvalidStateTransition
	}

	return nil
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, status entity.BookingStatus, reason string, refundAmount float64) error {
	query := `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, cancelled_at = NOW(),
		    refund_amount = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ($5, $6)
	`

	result, err := r.db.Exec(ctx, query,
		id,
		status,
		reason,
		refundAmount,
		entity.BookingStatusPending,
		entity.BookingStatusConfirmed,
	)

	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInvalidStateTransition
	}

	return nil
}

func (r *bookingRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusPending, cutoff, limit)
	if err != nil {
		r.log.Error("Failed to find expired pending bookings", zap.Error(err))
		return nil, fmt.Errorf("find expired pending bookings: %w", err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.UserID,
			&booking.ScheduleID,
			&booking.TotalSeats,
			&booking.TotalAmount,
			&booking.Status,
			&booking.PaymentRef,
			&booking.PaymentMethod,
			&booking.ContactEmail,
			&booking.ContactPhone,
			&booking.ExpiresAt,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&booking.RefundAmount,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}
