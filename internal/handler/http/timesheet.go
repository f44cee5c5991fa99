package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timesheet"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
)

type TimesheetHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// Generate implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var generateReq timesheet.GenerateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&generateReq); err != nil {
		slog.Error("Generate timesheet decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := generateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	sheet, err := h.timesheetService.Generate(r.Context(), generateReq, actorID)
	if err != nil {
		slog.Error("Generate timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet generated successfully", sheet)
}

// GetByID implements TimesheetHandler.
func (h *TimesheetHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	sheet, err := h.timesheetService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if sheet.UserID != userID && !user.HasPermission(role, user.PermissionTimesheetGenerate) {
		response.HandleError(w, timesheet.ErrTimesheetNotFound)
		return
	}

	response.Success(w, sheet)
}

// ListMine implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	sheets, err := h.timesheetService.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheets)
}

// List implements TimesheetHandler.
func (h *TimesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		sheets, err := h.timesheetService.ListByUser(r.Context(), userID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, sheets)
		return
	}

	sheets, err := h.timesheetService.List(r.Context())
	if err != nil {
		slog.Error("List timesheets service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheets)
}

// Submit implements TimesheetHandler. Staff may only submit their own
// timesheet; holders of the generate permission may submit on behalf.
func (h *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	sheet, err := h.timesheetService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if sheet.UserID != actorID && !user.HasPermission(role, user.PermissionTimesheetGenerate) {
		response.HandleError(w, timesheet.ErrTimesheetNotFound)
		return
	}

	sheet, err = h.timesheetService.Submit(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		slog.Error("Submit timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet submitted successfully", sheet)
}

// Approve implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	approveReq := timesheet.ApproveTimesheetRequest{
		ID:         chi.URLParam(r, "id"),
		ApprovedBy: actorID,
	}

	sheet, err := h.timesheetService.Approve(r.Context(), approveReq)
	if err != nil {
		slog.Error("Approve timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet approved successfully", sheet)
}

// Reject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	sheet, err := h.timesheetService.Reject(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		slog.Error("Reject timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet rejected", sheet)
}

// Export implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	sheet, err := h.timesheetService.Export(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		slog.Error("Export timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet exported successfully", sheet)
}
