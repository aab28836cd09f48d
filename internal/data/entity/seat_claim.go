package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatClaim is one inventory ledger entry: the binding between a seat on
// a schedule and the booking that holds it. ReleasedAt == nil means the
// claim is active; a partial unique index on (schedule_id, seat_id) over
// active rows guarantees at most one active claim per seat.
type SeatClaim struct {
	ID         uuid.UUID  `db:"id"`
	ScheduleID uuid.UUID  `db:"schedule_id"`
	SeatID     uuid.UUID  `db:"seat_id"`
	BookingID  uuid.UUID  `db:"booking_id"`
	ClaimedAt  time.Time  `db:"claimed_at"`
	ReleasedAt *time.Time `db:"released_at"`
}
