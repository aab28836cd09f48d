package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSearch(
	r chi.Router,
	searchHandler *adaptor.SearchHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/search?from=..&to=..&date=.. - Find departures
	r.Get("/api/search", searchHandler.SearchSchedules)

	// GET /api/routes/popular - Featured routes for the landing page
	r.Get("/api/routes/popular", searchHandler.GetPopularRoutes)
}
