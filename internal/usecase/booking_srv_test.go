package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(scheduleID uuid.UUID, seatIDs ...uuid.UUID) *request.CreateBookingRequest {
	passengers := make([]request.PassengerInput, len(seatIDs))
	for i, seatID := range seatIDs {
		passengers[i] = request.PassengerInput{
			SeatID: seatID.String(),
			Name:   "Asha Patel",
			Age:    30,
			Gender: "female",
		}
	}
	return &request.CreateBookingRequest{
		ScheduleID:   scheduleID.String(),
		Passengers:   passengers,
		ContactEmail: "asha@example.com",
		ContactPhone: "9876543210",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(4, 4, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID, seats[1].ID))

	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, 2, booking.TotalSeats)
	assert.Equal(t, 1000.0, booking.TotalAmount)
	assert.NotEmpty(t, booking.Reference)
	assert.Len(t, booking.Passengers, 2)
	require.NotNil(t, booking.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *booking.ExpiresAt, time.Minute)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 14, fresh.AvailableSeats)

	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 2, count)
}

func TestCreateBooking_SeatPriceDelta(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 400, 48*time.Hour)

	window := env.seats.seats[seats[0].ID]
	window.PriceDelta = 50
	env.seats.seats[seats[0].ID] = window

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))

	require.NoError(t, err)
	assert.Equal(t, 450.0, booking.TotalAmount)
}

func TestCreateBooking_ConcurrentSameSeat(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(5, 4, 500, 48*time.Hour)
	contested := seats[7].ID

	const racers = 16
	var wg sync.WaitGroup
	results := make([]error, racers)
	winners := make([]*response.BookingResponse, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			winners[i], results[i] = env.service.Booking.CreateBooking(
				context.Background(), uuid.New().String(), bookingRequest(schedule.ID, contested))
		}(i)
	}
	wg.Wait()

	wins := 0
	for i := 0; i < racers; i++ {
		if results[i] == nil {
			wins++
			assert.Equal(t, entity.BookingStatusPending, winners[i].Status)
		} else {
			assert.ErrorIs(t, results[i], entity.ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer should win the seat")

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 19, fresh.AvailableSeats)

	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 1, count)

	// losers' placeholder bookings must be rolled back
	assert.Len(t, env.bookings.bookings, 1)
}

func TestCreateBooking_AllOrNothingOnUnknownSeat(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(),
		bookingRequest(schedule.ID, seats[0].ID, uuid.New()))

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrSeatNotFound)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 4, fresh.AvailableSeats, "no seat may stay claimed after a failed booking")

	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 0, count)
	assert.Empty(t, env.bookings.bookings)
}

func TestCreateBooking_DuplicateSeatInRequest(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(),
		bookingRequest(schedule.ID, seats[0].ID, seats[0].ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested twice")
}

func TestCreateBooking_ScheduleFull(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(1, 2, 500, 48*time.Hour)

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(),
		bookingRequest(schedule.ID, seats[0].ID, seats[1].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrScheduleNotBookable)
}

func TestCreateBooking_DepartedSchedule(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, -2*time.Hour)

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrScheduleNotBookable)
}

func TestCreateBooking_PassengerFailureRollsBack(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	env.passengers.failCreate = true

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))

	require.Error(t, err)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 4, fresh.AvailableSeats)
	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 0, count)
	assert.Empty(t, env.bookings.bookings)
}

func TestConfirmPayment_Success(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	confirmed, err := env.service.Booking.ConfirmPayment(
		context.Background(), userID.String(), booking.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "upi"})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.PaymentRef)
	assert.Equal(t, "pay_123", *confirmed.PaymentRef)
	assert.Nil(t, confirmed.ExpiresAt, "a confirmed booking no longer expires")

	// seats stay claimed after confirmation
	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 1, count)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	req := &request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "card"}
	_, err = env.service.Booking.ConfirmPayment(context.Background(), userID.String(), booking.ID, req)
	require.NoError(t, err)

	again, err := env.service.Booking.ConfirmPayment(context.Background(), userID.String(), booking.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, again.Status)
}

func TestConfirmPayment_WrongUser(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.ConfirmPayment(
		context.Background(), uuid.New().String(), booking.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "upi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestConfirmPayment_ExpiredHold(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	backdateHold(env, booking.ID, -time.Minute)

	_, err = env.service.Booking.ConfirmPayment(
		context.Background(), userID.String(), booking.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "upi"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrHoldExpired)

	// the stale hold is expired on the spot, seats freed
	fresh, _ := env.bookings.FindByID(context.Background(), uuid.MustParse(booking.ID))
	assert.Equal(t, entity.BookingStatusCancelled, fresh.Status)

	sched, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 4, sched.AvailableSeats)
}

func TestCancelBooking_PendingReleasesSeats(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	cancelled, err := env.service.Booking.CancelBooking(
		context.Background(), userID.String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "change of plans"})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, 0.0, cancelled.RefundAmount)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 4, fresh.AvailableSeats)

	// the freed seat can be claimed again
	_, err = env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))
	assert.NoError(t, err)
}

func TestCancelBooking_ConfirmedEarlyRefund(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID, seats[1].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.ConfirmPayment(
		context.Background(), userID.String(), booking.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "netbanking"})
	require.NoError(t, err)

	cancelled, err := env.service.Booking.CancelBooking(
		context.Background(), userID.String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "trip postponed"})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusRefunded, cancelled.Status)
	assert.Equal(t, 1000.0, cancelled.RefundAmount)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 4, fresh.AvailableSeats)
}

func TestCancelBooking_ConfirmedLateNoRefund(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 2*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.ConfirmPayment(
		context.Background(), userID.String(), booking.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_123", PaymentMethod: "wallet"})
	require.NoError(t, err)

	cancelled, err := env.service.Booking.CancelBooking(
		context.Background(), userID.String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "missed it"})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, 0.0, cancelled.RefundAmount)
}

func TestCancelBooking_TerminalRejected(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.CancelBooking(
		context.Background(), userID.String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = env.service.Booking.CancelBooking(
		context.Background(), userID.String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "second"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidStateTransition)
}

func TestCancelBooking_WrongUserRejected(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	_, err = env.service.Booking.CancelBooking(
		context.Background(), uuid.New().String(), false, booking.ID,
		&request.CancelBookingRequest{Reason: "not mine"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestCancelBooking_AdminCanCancelAnyBooking(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	cancelled, err := env.service.Booking.CancelBooking(
		context.Background(), uuid.New().String(), true, booking.ID,
		&request.CancelBookingRequest{Reason: "operator request"})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
}

func TestExpireStaleHolds(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID, seats[1].ID))
	require.NoError(t, err)

	// a confirmed booking must survive the sweep
	other, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[2].ID))
	require.NoError(t, err)
	_, err = env.service.Booking.ConfirmPayment(
		context.Background(), userID.String(), other.ID,
		&request.ConfirmPaymentRequest{PaymentRef: "pay_456", PaymentMethod: "upi"})
	require.NoError(t, err)

	backdateHold(env, booking.ID, -time.Minute)

	expired, err := env.service.Booking.ExpireStaleHolds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	stale, _ := env.bookings.FindByID(context.Background(), uuid.MustParse(booking.ID))
	assert.Equal(t, entity.BookingStatusCancelled, stale.Status)

	kept, _ := env.bookings.FindByID(context.Background(), uuid.MustParse(other.ID))
	assert.Equal(t, entity.BookingStatusConfirmed, kept.Status)

	fresh, _ := env.schedules.FindByID(context.Background(), schedule.ID)
	assert.Equal(t, 3, fresh.AvailableSeats)

	count, _ := env.claims.CountActiveBySchedule(context.Background(), schedule.ID)
	assert.Equal(t, 1, count)

	// sweeping again finds nothing
	expired, err = env.service.Booking.ExpireStaleHolds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestGetUserBookings(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	_, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)
	_, err = env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[1].ID))
	require.NoError(t, err)

	page, err := env.service.Booking.GetUserBookings(
		context.Background(), userID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})

	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Pagination.Total)
}

func TestGetBookingByReference_OwnerOnly(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 500, 48*time.Hour)
	userID := uuid.New()

	booking, err := env.service.Booking.CreateBooking(
		context.Background(), userID.String(), bookingRequest(schedule.ID, seats[0].ID))
	require.NoError(t, err)

	found, err := env.service.Booking.GetBookingByReference(
		context.Background(), userID.String(), false, booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)

	_, err = env.service.Booking.GetBookingByReference(
		context.Background(), uuid.New().String(), false, booking.Reference)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	// admins can look up anyone's booking
	found, err = env.service.Booking.GetBookingByReference(
		context.Background(), uuid.New().String(), true, booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, booking.Reference, found.Reference)
}

// backdateHold moves a booking's hold expiry relative to now.
func backdateHold(env *testEnv, bookingID string, offset time.Duration) {
	id := uuid.MustParse(bookingID)
	env.bookings.mu.Lock()
	defer env.bookings.mu.Unlock()
	b := env.bookings.bookings[id]
	b.ExpiresAt = time.Now().Add(offset)
	env.bookings.bookings[id] = b
}

func TestCreateBooking_InvalidatesSeatMapCache(t *testing.T) {
	env := newTestEnv()
	schedule, seats := env.seedTrip(2, 2, 400, 48*time.Hour)

	env.redis.ExpectDel(fmt.Sprintf("seatmap:%s", schedule.ID.String())).SetVal(1)

	_, err := env.service.Booking.CreateBooking(
		context.Background(), uuid.New().String(), bookingRequest(schedule.ID, seats[0].ID))

	require.NoError(t, err)
	assert.NoError(t, env.redis.ExpectationsWereMet())
}
