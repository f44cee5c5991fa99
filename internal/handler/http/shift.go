package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)

	Assign(w http.ResponseWriter, r *http.Request)
	ListMyAssignments(w http.ResponseWriter, r *http.Request)
	AcceptAssignment(w http.ResponseWriter, r *http.Request)
	RejectAssignment(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewShiftHandler(scheduleService schedule.ScheduleService) ShiftHandler {
	return &ShiftHandlerImpl{scheduleService: scheduleService}
}

// Create implements ShiftHandler.
func (h *ShiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var createReq schedule.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.scheduleService.CreateShift(r.Context(), createReq, actorID)
	if err != nil {
		slog.Error("Create shift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", created)
}

// GetByID implements ShiftHandler.
func (h *ShiftHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	shiftResponse, err := h.scheduleService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shiftResponse)
}

// List implements ShiftHandler.
func (h *ShiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.scheduleService.ListShifts(r.Context())
	if err != nil {
		slog.Error("List shifts service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// Transition implements ShiftHandler.
func (h *ShiftHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var transitionReq schedule.TransitionShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&transitionReq); err != nil {
		slog.Error("Transition shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	transitionReq.ShiftID = chi.URLParam(r, "id")

	if err := transitionReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	shiftResponse, err := h.scheduleService.TransitionShift(r.Context(), transitionReq, actorID)
	if err != nil {
		slog.Error("Transition shift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift status updated successfully", shiftResponse)
}

// Assign implements ShiftHandler.
func (h *ShiftHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var assignReq schedule.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&assignReq); err != nil {
		slog.Error("Assign shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	assignReq.ShiftID = chi.URLParam(r, "id")

	if err := assignReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	assignment, err := h.scheduleService.AssignUser(r.Context(), assignReq, actorID)
	if err != nil {
		slog.Error("Assign shift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User assigned to shift successfully", assignment)
}

// ListMyAssignments implements ShiftHandler.
func (h *ShiftHandlerImpl) ListMyAssignments(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	assignments, err := h.scheduleService.ListAssignmentsByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, assignments)
}

// AcceptAssignment implements ShiftHandler.
func (h *ShiftHandlerImpl) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	assignment, err := h.scheduleService.AcceptAssignment(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		slog.Error("Accept assignment service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment accepted", assignment)
}

// RejectAssignment implements ShiftHandler.
func (h *ShiftHandlerImpl) RejectAssignment(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	assignment, err := h.scheduleService.RejectAssignment(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		slog.Error("Reject assignment service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment rejected", assignment)
}
