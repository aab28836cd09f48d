package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/utils"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. The seat claim fake reproduces the
// database's all-or-nothing claim semantics under a mutex, so the
// service tests can race real goroutines against it.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]entity.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.Token.String()] = *session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || s.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
		f.sessions[token] = s
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for token, s := range f.sessions {
		if s.UserID == userID {
			s.RevokedAt = &now
			f.sessions[token] = s
		}
	}
	return nil
}

type fakeBusRepo struct {
	mu    sync.Mutex
	buses map[uuid.UUID]entity.Bus
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{buses: make(map[uuid.UUID]entity.Bus)}
}

func (f *fakeBusRepo) Create(_ context.Context, bus *entity.Bus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buses[bus.ID] = *bus
	return nil
}

func (f *fakeBusRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Bus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buses[id]; ok {
		copied := b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBusRepo) FindByBusNumber(_ context.Context, busNumber string) (*entity.Bus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.buses {
		if b.BusNumber == busNumber {
			copied := b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBusRepo) FindAllActive(_ context.Context, limit, offset int) ([]*entity.Bus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Bus, 0, len(f.buses))
	for _, b := range f.buses {
		if b.IsActive {
			copied := b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBusRepo) Update(_ context.Context, bus *entity.Bus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buses[bus.ID] = *bus
	return nil
}

type fakeRouteRepo struct {
	mu     sync.Mutex
	routes map[uuid.UUID]entity.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[uuid.UUID]entity.Route)}
}

func (f *fakeRouteRepo) Create(_ context.Context, route *entity.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route.ID] = *route
	return nil
}

func (f *fakeRouteRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.routes[id]; ok {
		copied := r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRouteRepo) FindByCities(_ context.Context, fromCity, toCity string) ([]*entity.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Route
	for _, r := range f.routes {
		if r.IsActive &&
			strings.EqualFold(r.FromCity, fromCity) &&
			strings.EqualFold(r.ToCity, toCity) {
			copied := r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) FindPopular(_ context.Context, limit int) ([]*entity.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Route
	for _, r := range f.routes {
		if r.IsActive && r.IsPopular && len(out) < limit {
			copied := r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) Update(_ context.Context, route *entity.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route.ID] = *route
	return nil
}

type fakeSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]entity.Seat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[uuid.UUID]entity.Seat)}
}

func (f *fakeSeatRepo) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range seats {
		f.seats[s.ID] = *s
	}
	return nil
}

func (f *fakeSeatRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.seats[id]; ok {
		copied := s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSeatRepo) FindByBusID(_ context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Seat
	for _, s := range f.seats {
		if s.BusID == busID {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Seat
	for _, id := range ids {
		if s, ok := f.seats[id]; ok {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]entity.Schedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[uuid.UUID]entity.Schedule)}
}

func (f *fakeScheduleRepo) Create(_ context.Context, schedule *entity.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[schedule.ID] = *schedule
	return nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedules[id]; ok {
		copied := s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeScheduleRepo) FindByRouteAndDate(_ context.Context, routeID uuid.UUID, date time.Time) ([]*entity.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Schedule
	for _, s := range f.schedules {
		if s.RouteID == routeID && s.TravelDate.Format("2006-01-02") == date.Format("2006-01-02") {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByBusAndDate(_ context.Context, busID uuid.UUID, date time.Time) ([]*entity.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Schedule
	for _, s := range f.schedules {
		if s.BusID == busID && s.TravelDate.Format("2006-01-02") == date.Format("2006-01-02") {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedules[id]; ok {
		s.IsActive = false
		f.schedules[id] = s
	}
	return nil
}

func (f *fakeScheduleRepo) availableSeats(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedules[id].AvailableSeats
}

func (f *fakeScheduleRepo) adjustAvailable(id uuid.UUID, delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedules[id]; ok {
		s.AvailableSeats += delta
		f.schedules[id] = s
	}
}

type claimKey struct {
	scheduleID uuid.UUID
	seatID     uuid.UUID
}

type fakeSeatClaimRepo struct {
	mu        sync.Mutex
	active    map[claimKey]uuid.UUID
	schedules *fakeScheduleRepo
}

func newFakeSeatClaimRepo(schedules *fakeScheduleRepo) *fakeSeatClaimRepo {
	return &fakeSeatClaimRepo{
		active:    make(map[claimKey]uuid.UUID),
		schedules: schedules,
	}
}

func (f *fakeSeatClaimRepo) ClaimSeats(_ context.Context, scheduleID, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.schedules.availableSeats(scheduleID) < len(seatIDs) {
		return entity.ErrScheduleNotBookable
	}

	for _, seatID := range seatIDs {
		if _, taken := f.active[claimKey{scheduleID, seatID}]; taken {
			return entity.ErrSeatTaken
		}
	}

	for _, seatID := range seatIDs {
		f.active[claimKey{scheduleID, seatID}] = bookingID
	}
	f.schedules.adjustAvailable(scheduleID, -len(seatIDs))
	return nil
}

func (f *fakeSeatClaimRepo) ReleaseByBooking(_ context.Context, scheduleID, bookingID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	released := 0
	for key, holder := range f.active {
		if key.scheduleID == scheduleID && holder == bookingID {
			delete(f.active, key)
			released++
		}
	}
	if released > 0 {
		f.schedules.adjustAvailable(scheduleID, released)
	}
	return released, nil
}

func (f *fakeSeatClaimRepo) FindActiveBySchedule(_ context.Context, scheduleID uuid.UUID) ([]*entity.SeatClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.SeatClaim
	for key, holder := range f.active {
		if key.scheduleID == scheduleID {
			out = append(out, &entity.SeatClaim{
				ID:         uuid.New(),
				ScheduleID: key.scheduleID,
				SeatID:     key.seatID,
				BookingID:  holder,
				ClaimedAt:  time.Now(),
			})
		}
	}
	return out, nil
}

func (f *fakeSeatClaimRepo) FindActiveByBooking(_ context.Context, bookingID uuid.UUID) ([]*entity.SeatClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.SeatClaim
	for key, holder := range f.active {
		if holder == bookingID {
			out = append(out, &entity.SeatClaim{
				ID:         uuid.New(),
				ScheduleID: key.scheduleID,
				SeatID:     key.seatID,
				BookingID:  holder,
				ClaimedAt:  time.Now(),
			})
		}
	}
	return out, nil
}

func (f *fakeSeatClaimRepo) CountActiveBySchedule(_ context.Context, scheduleID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.active {
		if key.scheduleID == scheduleID {
			count++
		}
	}
	return count, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]entity.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		copied := b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Reference == reference {
			copied := b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			copied := b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) ConfirmPayment(_ context.Context, id uuid.UUID, paymentRef string, method entity.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != entity.BookingStatusPending {
		return entity.ErrInvalidStateTransition
	}
	b.Status = entity.BookingStatusConfirmed
	b.PaymentRef = &paymentRef
	b.PaymentMethod = &method
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return nil
}

func (f *fakeBookingRepo) MarkCancelled(_ context.Context, id uuid.UUID, status entity.BookingStatus, reason string, refundAmount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || (b.Status != entity.BookingStatusPending && b.Status != entity.BookingStatusConfirmed) {
		return entity.ErrInvalidStateTransition
	}
	now := time.Now()
	b.Status = status
	b.CancellationReason = &reason
	b.CancelledAt = &now
	b.RefundAmount = refundAmount
	b.UpdatedAt = now
	f.bookings[id] = b
	return nil
}

func (f *fakeBookingRepo) FindExpiredPending(_ context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status == entity.BookingStatusPending && b.ExpiresAt.Before(cutoff) && len(out) < limit {
			copied := b
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakePassengerRepo struct {
	mu         sync.Mutex
	passengers map[uuid.UUID][]entity.Passenger
	failCreate bool
}

func newFakePassengerRepo() *fakePassengerRepo {
	return &fakePassengerRepo{passengers: make(map[uuid.UUID][]entity.Passenger)}
}

func (f *fakePassengerRepo) CreateBatch(_ context.Context, passengers []*entity.Passenger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return context.DeadlineExceeded
	}
	for _, p := range passengers {
		f.passengers[p.BookingID] = append(f.passengers[p.BookingID], *p)
	}
	return nil
}

func (f *fakePassengerRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Passenger
	for _, p := range f.passengers[bookingID] {
		copied := p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakePassengerRepo) DeleteByBookingID(_ context.Context, bookingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.passengers, bookingID)
	return nil
}

// testEnv wires the fakes into a full service for tests.
type testEnv struct {
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	buses      *fakeBusRepo
	routes     *fakeRouteRepo
	seats      *fakeSeatRepo
	schedules  *fakeScheduleRepo
	claims     *fakeSeatClaimRepo
	bookings   *fakeBookingRepo
	passengers *fakePassengerRepo
	repo       *repository.Repository
	config     *utils.Config
	redis      redismock.ClientMock
	service    *usecase.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		sessions:   newFakeSessionRepo(),
		buses:      newFakeBusRepo(),
		routes:     newFakeRouteRepo(),
		seats:      newFakeSeatRepo(),
		schedules:  newFakeScheduleRepo(),
		bookings:   newFakeBookingRepo(),
		passengers: newFakePassengerRepo(),
	}
	env.claims = newFakeSeatClaimRepo(env.schedules)

	env.repo = &repository.Repository{
		User:      env.users,
		Session:   env.sessions,
		Bus:       env.buses,
		Route:     env.routes,
		Seat:      env.seats,
		Schedule:  env.schedules,
		Booking:   env.bookings,
		Passenger: env.passengers,
		SeatClaim: env.claims,
	}

	env.config = &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Booking: utils.BookingConfig{
			HoldMinutes:       15,
			SweepSeconds:      60,
			RefundWindowHours: 24,
			SeatMapTTLSeconds: 30,
		},
	}

	redisClient, redisMock := redismock.NewClientMock()
	env.redis = redisMock
	seatMaps := cache.NewSeatMapCache(redisClient, 30*time.Second, zap.NewNop())

	env.service = usecase.NewService(env.repo, seatMaps, env.config, zap.NewNop())
	return env
}

// seedTrip creates an active bus, route and schedule with a full seat
// layout, returning the schedule and its seats ordered by number.
func (env *testEnv) seedTrip(rows, cols int, basePrice float64, departIn time.Duration) (*entity.Schedule, []*entity.Seat) {
	now := time.Now()
	bus := &entity.Bus{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OperatorName:  "Sharma Travels",
		BusNumber:     "MH12AB1234",
		BusType:       entity.BusTypeAC,
		TotalSeats:    rows * cols,
		LayoutRows:    rows,
		LayoutColumns: cols,
		IsActive:      true,
	}
	env.buses.Create(context.Background(), bus)

	route := &entity.Route{
		Base:             entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FromCity:         "Mumbai",
		FromState:        "Maharashtra",
		ToCity:           "Pune",
		ToState:          "Maharashtra",
		DistanceKM:       150,
		EstimatedMinutes: 180,
		RouteType:        entity.RouteTypeExpress,
		IsActive:         true,
	}
	env.routes.Create(context.Background(), route)

	var seats []*entity.Seat
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			seat := &entity.Seat{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				BusID:      bus.ID,
				SeatNumber: string(rune('A'+row-1)) + string(rune('0'+col)),
				SeatRow:    row,
				SeatColumn: col,
				SeatType:   entity.SeatTypeWindow,
			}
			seats = append(seats, seat)
		}
	}
	env.seats.CreateBatch(context.Background(), seats)

	departure := now.UTC().Add(departIn)
	schedule := &entity.Schedule{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BusID:          bus.ID,
		RouteID:        route.ID,
		TravelDate:     time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC),
		DepartureTime:  departure.Format("15:04"),
		ArrivalTime:    departure.Add(3 * time.Hour).Format("15:04"),
		BasePrice:      basePrice,
		TotalSeats:     rows * cols,
		AvailableSeats: rows * cols,
		IsActive:       true,
	}
	env.schedules.Create(context.Background(), schedule)

	return schedule, seats
}
