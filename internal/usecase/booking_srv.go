package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// expireBatchSize bounds how many stale holds one sweep processes.
const expireBatchSize = 100

type BookingService interface {
	// CreateBooking attempts to atomically claim the requested seats.
	// On success the booking is pending and holds the seats until its
	// hold window elapses or payment is confirmed.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// ConfirmPayment transitions pending -> confirmed with the external
	// payment reference. Idempotent for already-confirmed bookings.
	ConfirmPayment(ctx context.Context, userID string, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error)

	// CancelBooking transitions pending/confirmed -> cancelled, or
	// confirmed -> refunded when cancelled early enough before
	// departure. Releases the booking's seats either way.
	CancelBooking(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)

	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByReference(ctx context.Context, userID string, isAdmin bool, reference string) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// ExpireStaleHolds releases seats held by pending bookings whose
	// hold window elapsed. Returns how many bookings were expired.
	ExpireStaleHolds(ctx context.Context) (int, error)

	// RunHoldSweeper loops ExpireStaleHolds until ctx is cancelled.
	RunHoldSweeper(ctx context.Context)
}

type bookingService struct {
	repo     *repository.Repository
	seatMaps *cache.SeatMapCache
	config   *utils.Config
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, seatMaps *cache.SeatMapCache, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		seatMaps: seatMaps,
		config:   config,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", req.ScheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s not found", req.ScheduleID)
	}

	now := time.Now()
	if !schedule.IsActive || !schedule.DepartureAt().After(now) {
		return nil, fmt.Errorf("schedule %s: %w", req.ScheduleID, entity.ErrScheduleNotBookable)
	}
	if schedule.AvailableSeats < len(req.Passengers) {
		return nil, fmt.Errorf("schedule %s has %d seats left: %w",
			req.ScheduleID, schedule.AvailableSeats, entity.ErrScheduleNotBookable)
	}

	// One seat per passenger, no seat twice in the same request.
	seatIDs := make([]uuid.UUID, len(req.Passengers))
	seen := make(map[uuid.UUID]bool, len(req.Passengers))
	for i, p := range req.Passengers {
		seatID, err := uuid.Parse(p.SeatID)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID format %s: %w", p.SeatID, err)
		}
		if seen[seatID] {
			return nil, fmt.Errorf("validation failed: seat %s requested twice", p.SeatID)
		}
		seen[seatID] = true
		seatIDs[i] = seatID
	}

	seats, err := s.repo.Seat.FindByIDs(ctx, seatIDs)
	if err != nil {
		s.log.Error("Failed to load requested seats", zap.Error(err))
		return nil, fmt.Errorf("load requested seats: %w", err)
	}

	seatsByID := make(map[uuid.UUID]*entity.Seat, len(seats))
	for _, seat := range seats {
		seatsByID[seat.ID] = seat
	}

	totalAmount := 0.0
	for _, seatID := range seatIDs {
		seat, ok := seatsByID[seatID]
		if !ok || seat.BusID != schedule.BusID {
			return nil, fmt.Errorf("seat %s on schedule %s: %w",
				seatID.String(), req.ScheduleID, entity.ErrSeatNotFound)
		}
		totalAmount += schedule.BasePrice + seat.PriceDelta
	}

	holdWindow := time.Duration(s.config.Booking.HoldMinutes) * time.Minute

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:    utils.GenerateBookingReference(),
		UserID:       userUUID,
		ScheduleID:   scheduleID,
		TotalSeats:   len(seatIDs),
		TotalAmount:  totalAmount,
		Status:       entity.BookingStatusPending,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		ExpiresAt:    now.Add(holdWindow),
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("schedule_id", req.ScheduleID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// The claim transaction is all-or-nothing; a conflict here means
	// another request won the race for at least one seat.
	if err := s.repo.SeatClaim.ClaimSeats(ctx, scheduleID, booking.ID, seatIDs); err != nil {
		if delErr := s.repo.Booking.Delete(ctx, booking.ID); delErr != nil {
			s.log.Error("Failed to remove booking after claim failure",
				zap.Error(delErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		return nil, fmt.Errorf("claim seats for booking %s: %w", booking.Reference, err)
	}

	passengers := make([]*entity.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = &entity.Passenger{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:  booking.ID,
			SeatID:     seatIDs[i],
			SeatNumber: seatsByID[seatIDs[i]].SeatNumber,
			Name:       p.Name,
			Age:        p.Age,
			Gender:     entity.Gender(p.Gender),
		}
	}

	if err := s.repo.Passenger.CreateBatch(ctx, passengers); err != nil {
		// Roll the whole reservation back: release claims, drop booking.
		if _, relErr := s.repo.SeatClaim.ReleaseByBooking(ctx, scheduleID, booking.ID); relErr != nil {
			s.log.Error("Failed to release claims after passenger failure",
				zap.Error(relErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		if delErr := s.repo.Booking.Delete(ctx, booking.ID); delErr != nil {
			s.log.Error("Failed to remove booking after passenger failure",
				zap.Error(delErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		return nil, fmt.Errorf("create passengers: %w", err)
	}

	s.seatMaps.Invalidate(ctx, scheduleID)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("user_id", userID),
		zap.Int("seat_count", len(seatIDs)),
		zap.Float64("total_amount", totalAmount),
		zap.Time("expires_at", booking.ExpiresAt),
	)

	return s.buildBookingResponse(ctx, booking, passengers), nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, userID string, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	if booking.UserID != userUUID {
		return nil, fmt.Errorf("unauthorized to confirm payment for this booking")
	}

	// Idempotence: confirming a confirmed booking is a no-op success.
	if booking.Status == entity.BookingStatusConfirmed {
		s.log.Info("Payment already confirmed",
			zap.String("booking_id", bookingID),
			zap.String("reference", booking.Reference),
		)
		return s.loadBookingResponse(ctx, booking)
	}

	if booking.IsTerminal() {
		return nil, fmt.Errorf("booking %s is %s: %w",
			booking.Reference, booking.Status, entity.ErrInvalidStateTransition)
	}

	// Lazy expiry: a stale hold can never be confirmed, even between
	// sweeper runs.
	if booking.HoldExpired(time.Now()) {
		if err := s.expireBooking(ctx, booking); err != nil {
			s.log.Error("Failed to expire stale booking on confirm",
				zap.Error(err),
				zap.String("booking_id", bookingID),
			)
		}
		return nil, fmt.Errorf("booking %s: %w", booking.Reference, entity.ErrHoldExpired)
	}

	err = s.repo.Booking.ConfirmPayment(ctx, id, req.PaymentRef, entity.PaymentMethod(req.PaymentMethod))
	if errors.Is(err, entity.ErrInvalidStateTransition) {
		// Lost a race with another transition. If that race was a
		// duplicate confirm, stay idempotent.
		fresh, findErr := s.repo.Booking.FindByID(ctx, id)
		if findErr == nil && fresh != nil && fresh.Status == entity.BookingStatusConfirmed {
			return s.loadBookingResponse(ctx, fresh)
		}
		return nil, fmt.Errorf("booking %s: %w", booking.Reference, entity.ErrInvalidStateTransition)
	}
	if err != nil {
		s.log.Error("Failed to confirm payment",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	s.log.Info("Payment confirmed",
		zap.String("booking_id", bookingID),
		zap.String("reference", booking.Reference),
		zap.String("payment_ref", req.PaymentRef),
		zap.String("payment_method", req.PaymentMethod),
	)

	booking, err = s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("reload booking %s: %w", bookingID, err)
	}

	return s.loadBookingResponse(ctx, booking)
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Cancel booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	if !isAdmin && booking.UserID != userUUID {
		return nil, fmt.Errorf("unauthorized to cancel this booking")
	}

	if booking.IsTerminal() {
		return nil, fmt.Errorf("booking %s is %s: %w",
			booking.Reference, booking.Status, entity.ErrInvalidStateTransition)
	}

	// A confirmed booking cancelled early enough before departure is
	// refunded in full; later cancellations forfeit the fare.
	targetStatus := entity.BookingStatusCancelled
	refundAmount := 0.0
	if booking.Status == entity.BookingStatusConfirmed {
		schedule, err := s.repo.Schedule.FindByID(ctx, booking.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("find schedule for cancellation: %w", err)
		}
		refundWindow := time.Duration(s.config.Booking.RefundWindowHours) * time.Hour
		if schedule != nil && time.Until(schedule.DepartureAt()) >= refundWindow {
			targetStatus = entity.BookingStatusRefunded
			refundAmount = booking.TotalAmount
		}
	}

	if err := s.repo.Booking.MarkCancelled(ctx, id, targetStatus, req.Reason, refundAmount); err != nil {
		if errors.Is(err, entity.ErrInvalidStateTransition) {
			return nil, fmt.Errorf("booking %s: %w", booking.Reference, entity.ErrInvalidStateTransition)
		}
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	released, err := s.repo.SeatClaim.ReleaseByBooking(ctx, booking.ScheduleID, booking.ID)
	if err != nil {
		s.log.Error("Failed to release seats for cancelled booking",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("release seats for booking %s: %w", bookingID, err)
	}

	s.seatMaps.Invalidate(ctx, booking.ScheduleID)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("reference", booking.Reference),
		zap.String("status", string(targetStatus)),
		zap.Float64("refund_amount", refundAmount),
		zap.Int("seats_released", released),
	)

	booking, err = s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("reload booking %s: %w", bookingID, err)
	}

	return s.loadBookingResponse(ctx, booking)
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp, err := s.loadBookingResponse(ctx, booking)
		if err != nil {
			return nil, err
		}
		bookingResponses[i] = *resp
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByReference(ctx context.Context, userID string, isAdmin bool, reference string) (*response.BookingResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking, err := s.repo.Booking.FindByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", reference)
	}

	if !isAdmin && booking.UserID != userUUID {
		return nil, fmt.Errorf("unauthorized to view this booking")
	}

	return s.loadBookingResponse(ctx, booking)
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	return s.loadBookingResponse(ctx, booking)
}

// ==================== HOLD EXPIRY ====================

func (s *bookingService) ExpireStaleHolds(ctx context.Context) (int, error) {
	stale, err := s.repo.Booking.FindExpiredPending(ctx, time.Now(), expireBatchSize)
	if err != nil {
		s.log.Error("Failed to fetch expired holds", zap.Error(err))
		return 0, fmt.Errorf("fetch expired holds: %w", err)
	}

	expired := 0
	for _, booking := range stale {
		if err := s.expireBooking(ctx, booking); err != nil {
			s.log.Error("Failed to expire booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.log.Info("Stale holds expired", zap.Int("count", expired))
	}

	return expired, nil
}

func (s *bookingService) expireBooking(ctx context.Context, booking *entity.Booking) error {
	err := s.repo.Booking.MarkCancelled(ctx, booking.ID, entity.BookingStatusCancelled, "hold window elapsed", 0)
	if errors.Is(err, entity.ErrInvalidStateTransition) {
		// Someone confirmed or cancelled it between the sweep query and
		// now; their transition wins.
		return nil
	}
	if err != nil {
		return fmt.Errorf("expire booking %s: %w", booking.Reference, err)
	}

	if _, err := s.repo.SeatClaim.ReleaseByBooking(ctx, booking.ScheduleID, booking.ID); err != nil {
		return fmt.Errorf("release seats for expired booking %s: %w", booking.Reference, err)
	}

	s.seatMaps.Invalidate(ctx, booking.ScheduleID)

	s.log.Info("Booking hold expired",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
	)

	return nil
}

func (s *bookingService) RunHoldSweeper(ctx context.Context) {
	interval := time.Duration(s.config.Booking.SweepSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Hold sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Hold sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.ExpireStaleHolds(ctx); err != nil {
				s.log.Error("Hold sweep failed", zap.Error(err))
			}
		}
	}
}

// ==================== HELPER METHODS ====================

func (s *bookingService) loadBookingResponse(ctx context.Context, booking *entity.Booking) (*response.BookingResponse, error) {
	passengers, err := s.repo.Passenger.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load passengers for booking %s: %w", booking.ID.String(), err)
	}

	return s.buildBookingResponse(ctx, booking, passengers), nil
}

func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking, passengers []*entity.Passenger) *response.BookingResponse {
	var operatorName, busType, fromCity, toCity, travelDate, departureTime string

	schedule, _ := s.repo.Schedule.FindByID(ctx, booking.ScheduleID)
	if schedule != nil {
		travelDate = schedule.TravelDate.Format("2006-01-02")
		departureTime = schedule.DepartureTime

		bus, _ := s.repo.Bus.FindByID(ctx, schedule.BusID)
		if bus != nil {
			operatorName = bus.OperatorName
			busType = string(bus.BusType)
		}

		route, _ := s.repo.Route.FindByID(ctx, schedule.RouteID)
		if route != nil {
			fromCity = route.FromCity
			toCity = route.ToCity
		}
	}

	var paymentMethod *string
	if booking.PaymentMethod != nil {
		m := string(*booking.PaymentMethod)
		paymentMethod = &m
	}

	var expiresAt *time.Time
	if booking.Status == entity.BookingStatusPending {
		e := booking.ExpiresAt
		expiresAt = &e
	}

	return &response.BookingResponse{
		ID:            booking.ID.String(),
		Reference:     booking.Reference,
		UserID:        booking.UserID.String(),
		ScheduleID:    booking.ScheduleID.String(),
		OperatorName:  operatorName,
		BusType:       busType,
		FromCity:      fromCity,
		ToCity:        toCity,
		TravelDate:    travelDate,
		DepartureTime: departureTime,
		TotalSeats:    booking.TotalSeats,
		TotalAmount:   booking.TotalAmount,
		Status:        booking.Status,
		PaymentRef:    booking.PaymentRef,
		PaymentMethod: paymentMethod,
		Passengers:    response.PassengersToResponse(passengers),
		ExpiresAt:     expiresAt,
		RefundAmount:  booking.RefundAmount,
		CreatedAt:     booking.CreatedAt,
	}
}
