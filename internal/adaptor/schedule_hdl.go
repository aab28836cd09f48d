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

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// GetSeatMap handles GET /api/schedules/{id}/seats
func (h *ScheduleHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")

	seatMap, err := h.service.GetSeatMap(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// GetSchedule handles GET /api/schedules/{id}
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")

	schedule, err := h.service.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// CreateSchedule handles POST /api/admin/schedules (admin)
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create schedule")
		return
	}

	utils.ResponseCreated(w, "success", schedule)
}

// DeactivateSchedule handles DELETE /api/admin/schedules/{id} (admin)
func (h *ScheduleHandler) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")

	if err := h.service.DeactivateSchedule(r.Context(), scheduleID); err != nil {
		handleServiceError(w, h.log, err, "deactivate schedule")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
