package adaptor

import (
	"encoding/json"
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// CreateBus handles POST /api/admin/buses (admin)
func (h *CatalogHandler) CreateBus(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	bus, err := h.service.CreateBus(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create bus")
		return
	}

	utils.ResponseCreated(w, "success", bus)
}

// UpdateBus handles PUT /api/admin/buses/{id} (admin)
func (h *CatalogHandler) UpdateBus(w http.ResponseWriter, r *http.Request) {
	busID := chi.URLParam(r, "id")

	var req request.UpdateBusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	bus, err := h.service.UpdateBus(r.Context(), busID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update bus")
		return
	}

	utils.ResponseSuccess(w, "success", bus)
}

// GetBus handles GET /api/buses/{id}
func (h *CatalogHandler) GetBus(w http.ResponseWriter, r *http.Request) {
	busID := chi.URLParam(r, "id")

	bus, err := h.service.GetBus(r.Context(), busID)
	if err != nil {
		handleServiceError(w, h.log, err, "get bus")
		return
	}

	utils.ResponseSuccess(w, "success", bus)
}

// ListBuses handles GET /api/buses
func (h *CatalogHandler) ListBuses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	buses, err := h.service.ListBuses(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list buses")
		return
	}

	utils.ResponseSuccess(w, "success", buses)
}

// CreateRoute handles POST /api/admin/routes (admin)
func (h *CatalogHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	route, err := h.service.CreateRoute(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create route")
		return
	}

	utils.ResponseCreated(w, "success", route)
}

// GetRoute handles GET /api/routes/{id}
func (h *CatalogHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")

	route, err := h.service.GetRoute(r.Context(), routeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get route")
		return
	}

	utils.ResponseSuccess(w, "success", route)
}
