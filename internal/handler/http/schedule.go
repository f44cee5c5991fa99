package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

type ScheduleHandler interface {
	CreateSchedule(w http.ResponseWriter, r *http.Request)
	GetSchedule(w http.ResponseWriter, r *http.Request)
	ListSchedules(w http.ResponseWriter, r *http.Request)
	UpdateSchedule(w http.ResponseWriter, r *http.Request)
	UpdateScheduleStatus(w http.ResponseWriter, r *http.Request)
	ListScheduleShifts(w http.ResponseWriter, r *http.Request)

	CreateShiftTemplate(w http.ResponseWriter, r *http.Request)
	ListShiftTemplates(w http.ResponseWriter, r *http.Request)
	DeleteShiftTemplate(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &ScheduleHandlerImpl{scheduleService: scheduleService}
}

// CreateSchedule implements ScheduleHandler.
func (h *ScheduleHandlerImpl) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var createReq schedule.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	createReq.CreatedBy = actorID

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.scheduleService.CreateSchedule(r.Context(), createReq)
	if err != nil {
		slog.Error("Create schedule service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule created successfully", created)
}

// GetSchedule implements ScheduleHandler.
func (h *ScheduleHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleResponse, err := h.scheduleService.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, scheduleResponse)
}

// ListSchedules implements ScheduleHandler.
func (h *ScheduleHandlerImpl) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.scheduleService.ListSchedules(r.Context())
	if err != nil {
		slog.Error("List schedules service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, schedules)
}

// UpdateSchedule implements ScheduleHandler.
func (h *ScheduleHandlerImpl) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var updateReq schedule.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.scheduleService.UpdateSchedule(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update schedule service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule updated successfully", updated)
}

// UpdateScheduleStatus implements ScheduleHandler.
func (h *ScheduleHandlerImpl) UpdateScheduleStatus(w http.ResponseWriter, r *http.Request) {
	var statusReq struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if !validator.IsInSlice(statusReq.Status, schedule.ScheduleStatusValues) {
		response.ValidationError(w, map[string]string{
			"status": "status must be one of: draft, active, archived",
		})
		return
	}

	err := h.scheduleService.UpdateScheduleStatus(r.Context(), chi.URLParam(r, "id"), schedule.ScheduleStatus(statusReq.Status))
	if err != nil {
		slog.Error("Update schedule status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule status updated successfully", nil)
}

// ListScheduleShifts implements ScheduleHandler.
func (h *ScheduleHandlerImpl) ListScheduleShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.scheduleService.ListShiftsBySchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// CreateShiftTemplate implements ScheduleHandler.
func (h *ScheduleHandlerImpl) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var createReq schedule.CreateShiftTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create shift template decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.scheduleService.CreateShiftTemplate(r.Context(), createReq)
	if err != nil {
		slog.Error("Create shift template service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift template created successfully", created)
}

// ListShiftTemplates implements ScheduleHandler.
func (h *ScheduleHandlerImpl) ListShiftTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.scheduleService.ListShiftTemplates(r.Context())
	if err != nil {
		slog.Error("List shift templates service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, templates)
}

// DeleteShiftTemplate implements ScheduleHandler.
func (h *ScheduleHandlerImpl) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduleService.DeleteShiftTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift template deleted successfully", nil)
}
