package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSchedule(
	r chi.Router,
	scheduleHandler *adaptor.ScheduleHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/schedules/{id} - Schedule details
	r.Get("/api/schedules/{id}", scheduleHandler.GetSchedule)

	// GET /api/schedules/{id}/seats - Seat map with live availability
	r.Get("/api/schedules/{id}/seats", scheduleHandler.GetSeatMap)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/schedules", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// POST /api/admin/schedules - Publish a departure
		r.Post("/", scheduleHandler.CreateSchedule)

		// DELETE /api/admin/schedules/{id} - Take a departure off sale
		r.Delete("/{id}", scheduleHandler.DeactivateSchedule)
	})
}
