package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

type Booking struct {
	Base
	Reference          string         `db:"reference"`
	UserID             uuid.UUID      `db:"user_id"`
	ScheduleID         uuid.UUID      `db:"schedule_id"`
	TotalSeats         int            `db:"total_seats"`
	TotalAmount        float64        `db:"total_amount"`
	Status             BookingStatus  `db:"status"`
	PaymentRef         *string        `db:"payment_ref"`
	PaymentMethod      *PaymentMethod `db:"payment_method"`
	ContactEmail       string         `db:"contact_email"`
	ContactPhone       string         `db:"contact_phone"`
	ExpiresAt          time.Time      `db:"expires_at"` // hold window for pending bookings
	CancellationReason *string        `db:"cancellation_reason"`
	CancelledAt        *time.Time     `db:"cancelled_at"`
	RefundAmount       float64        `db:"refund_amount"`
}

// IsTerminal reports whether no further status transition is allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusRefunded
}

// HoldExpired reports whether a pending booking has outlived its hold window.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == BookingStatusPending && now.After(b.ExpiresAt)
}
