package adaptor

import (
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type SearchHandler struct {
	service usecase.SearchService
	log     *zap.Logger
}

func NewSearchHandler(service usecase.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log.With(zap.String("handler", "search")),
	}
}

// SearchSchedules handles GET /api/search?from=..&to=..&date=..
func (h *SearchHandler) SearchSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.SearchSchedulesRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
		Date: query.Get("date"),
	}

	results, err := h.service.SearchSchedules(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "search schedules")
		return
	}

	utils.ResponseSuccess(w, "success", results)
}

// GetPopularRoutes handles GET /api/routes/popular
func (h *SearchHandler) GetPopularRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.GetPopularRoutes(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get popular routes")
		return
	}

	utils.ResponseSuccess(w, "success", routes)
}
