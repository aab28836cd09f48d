package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Hold seats and create a pending booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// POST /api/bookings/{id}/payment - Confirm payment on a hold
		r.Post("/api/bookings/{id}/payment", bookingHandler.ConfirmPayment)

		// POST /api/bookings/{id}/cancel - Cancel own booking
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - Own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/reference/{reference} - Look up own booking by reference
		r.Get("/api/bookings/reference/{reference}", bookingHandler.GetBookingByReference)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/bookings/{id} - View any booking
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// POST /api/admin/bookings/{id}/cancel - Cancel any booking
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
