package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/buses - List active buses
	r.Get("/api/buses", catalogHandler.ListBuses)

	// GET /api/buses/{id} - Bus details
	r.Get("/api/buses/{id}", catalogHandler.GetBus)

	// GET /api/routes/{id} - Route details
	r.Get("/api/routes/{id}", catalogHandler.GetRoute)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// POST /api/admin/buses - Register a bus with its seat layout
		r.Post("/api/admin/buses", catalogHandler.CreateBus)

		// PUT /api/admin/buses/{id} - Update bus details
		r.Put("/api/admin/buses/{id}", catalogHandler.UpdateBus)

		// POST /api/admin/routes - Create a route
		r.Post("/api/admin/routes", catalogHandler.CreateRoute)
	})
}
