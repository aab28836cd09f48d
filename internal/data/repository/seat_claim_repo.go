package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatClaimRepository owns the inventory ledger. ClaimSeats and
// ReleaseByBooking are the only write paths, and each is a single
// transaction, so the schedule's available_seats counter can never
// drift from the set of active claims.
type SeatClaimRepository interface {
	// ClaimSeats atomically claims every seat for the booking and
	// decrements the schedule's availability. All-or-nothing: returns
	// entity.ErrSeatTaken if any seat has an active claim, or
	// entity.ErrScheduleNotBookable if availability would go negative,
	// and in both cases leaves the ledger untouched.
	ClaimSeats(ctx context.Context, scheduleID, bookingID uuid.UUID, seatIDs []uuid.UUID) error

	// ReleaseByBooking releases every active claim held by the booking
	// and restores availability. Returns the number of seats released.
	// Safe to call twice: already-released claims are skipped.
	ReleaseByBooking(ctx context.Context, scheduleID, bookingID uuid.UUID) (int, error)

	FindActiveBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*entity.SeatClaim, error)
	FindActiveByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.SeatClaim, error)
	CountActiveBySchedule(ctx context.Context, scheduleID uuid.UUID) (int, error)
}

type seatClaimRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatClaimRepository(db database.PgxIface, log *zap.Logger) SeatClaimRepository {
	return &seatClaimRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_claim")),
	}
}

func (r *seatClaimRepository) ClaimSeats(ctx context.Context, scheduleID, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin claim transaction", zap.Error(err))
		return fmt.Errorf("begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize claims per schedule. Concurrent reservations on the same
	// schedule queue up here; reads are unaffected.
	var available int
	lockQuery := `SELECT available_seats FROM schedules WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, scheduleID).Scan(&available); err != nil {
		r.log.Error("Failed to lock schedule row",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return fmt.Errorf("lock schedule %s: %w", scheduleID.String(), err)
	}

	if available < len(seatIDs) {
		return entity.ErrScheduleNotBookable
	}

	// Conditional insert per seat. The partial unique index on active
	// (schedule_id, seat_id) pairs turns a lost race into zero rows
	// affected rather than a duplicate claim.
	insertQuery := `
		INSERT INTO seat_claims (id, schedule_id, seat_id, booking_id, claimed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (schedule_id, seat_id) WHERE released_at IS NULL DO NOTHING
	`

	for _, seatID := range seatIDs {
		tag, err := tx.Exec(ctx, insertQuery, uuid.New(), scheduleID, seatID, bookingID)
		if err != nil {
			r.log.Error("Failed to insert seat claim",
				zap.Error(err),
				zap.String("schedule_id", scheduleID.String()),
				zap.String("seat_id", seatID.String()),
			)
			return fmt.Errorf("claim seat %s: %w", seatID.String(), err)
		}

		if tag.RowsAffected() == 0 {
			// Another booking holds this seat. Rolling back releases
			// every sibling claim made in this request.
			r.log.Info("Seat claim conflict",
				zap.String("schedule_id", scheduleID.String()),
				zap.String("seat_id", seatID.String()),
				zap.String("booking_id", bookingID.String()),
			)
			return entity.ErrSeatTaken
		}
	}

	// Guarded decrement keeps available_seats >= 0 even if the counter
	// was tampered with outside this repository.
	decQuery := `
		UPDATE schedules
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`
	tag, err := tx.Exec(ctx, decQuery, scheduleID, len(seatIDs))
	if err != nil {
		r.log.Error("Failed to decrement availability",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return fmt.Errorf("decrement availability for schedule %s: %w", scheduleID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrScheduleNotBookable
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit claim transaction", zap.Error(err))
		return fmt.Errorf("commit claim transaction: %w", err)
	}

	r.log.Info("Seats claimed",
		zap.String("schedule_id", scheduleID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.Int("seat_count", len(seatIDs)),
	)

	return nil
}

func (r *seatClaimRepository) ReleaseByBooking(ctx context.Context, scheduleID, bookingID uuid.UUID) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin release transaction", zap.Error(err))
		return 0, fmt.Errorf("begin release transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	releaseQuery := `
		UPDATE seat_claims
		SET released_at = NOW()
		WHERE booking_id = $1 AND released_at IS NULL
	`
	tag, err := tx.Exec(ctx, releaseQuery, bookingID)
	if err != nil {
		r.log.Error("Failed to release seat claims",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("release claims for booking %s: %w", bookingID.String(), err)
	}

	released := int(tag.RowsAffected())
	if released == 0 {
		// Nothing held, nothing to restore.
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("commit release transaction: %w", err)
		}
		return 0, nil
	}

	restoreQuery := `
		UPDATE schedules
		SET available_seats = available_seats + $2, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, restoreQuery, scheduleID, released); err != nil {
		r.log.Error("Failed to restore availability",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return 0, fmt.Errorf("restore availability for schedule %s: %w", scheduleID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit release transaction", zap.Error(err))
		return 0, fmt.Errorf("commit release transaction: %w", err)
	}

	r.log.Info("Seat claims released",
		zap.String("schedule_id", scheduleID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.Int("seat_count", released),
	)

	return released, nil
}

func (r *seatClaimRepository) FindActiveBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*entity.SeatClaim, error) {
	query := `
		SELECT id, schedule_id, seat_id, booking_id, claimed_at, released_at
		FROM seat_claims
		WHERE schedule_id = $1 AND released_at IS NULL
		ORDER BY claimed_at
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		r.log.Error("Failed to find active claims by schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("find active claims for schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	var claims []*entity.SeatClaim
	for rows.Next() {
		var claim entity.SeatClaim
		err := rows.Scan(
			&claim.ID,
			&claim.ScheduleID,
			&claim.SeatID,
			&claim.BookingID,
			&claim.ClaimedAt,
			&claim.ReleasedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat claim row", zap.Error(err))
			return nil, fmt.Errorf("scan seat claim row: %w", err)
		}
		claims = append(claims, &claim)
	}

	return claims, nil
}

func (r *seatClaimRepository) FindActiveByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.SeatClaim, error) {
	query := `
		SELECT id, schedule_id, seat_id, booking_id, claimed_at, released_at
		FROM seat_claims
		WHERE booking_id = $1 AND released_at IS NULL
		ORDER BY claimed_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find active claims by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find active claims for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var claims []*entity.SeatClaim
	for rows.Next() {
		var claim entity.SeatClaim
		err := rows.Scan(
			&claim.ID,
			&claim.ScheduleID,
			&claim.SeatID,
			&claim.BookingID,
			&claim.ClaimedAt,
			&claim.ReleasedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat claim row", zap.Error(err))
			return nil, fmt.Errorf("scan seat claim row: %w", err)
		}
		claims = append(claims, &claim)
	}

	return claims, nil
}

func (r *seatClaimRepository) CountActiveBySchedule(ctx context.Context, scheduleID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM seat_claims WHERE schedule_id = $1 AND released_at IS NULL`

	var count int
	if err := r.db.QueryRow(ctx, query, scheduleID).Scan(&count); err != nil {
		r.log.Error("Failed to count active claims",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return 0, fmt.Errorf("count active claims for schedule %s: %w", scheduleID.String(), err)
	}

	return count, nil
}
