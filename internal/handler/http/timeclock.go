package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
)

const maxClockOutFormSize = 16 << 20 // form fields, a 10MB attachment and a signature

type TimeclockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Amend(w http.ResponseWriter, r *http.Request)
	Lock(w http.ResponseWriter, r *http.Request)
	Unlock(w http.ResponseWriter, r *http.Request)
}

type TimeclockHandlerImpl struct {
	timeclockService timeentry.TimeclockService
}

func NewTimeclockHandler(timeclockService timeentry.TimeclockService) TimeclockHandler {
	return &TimeclockHandlerImpl{timeclockService: timeclockService}
}

// ClockIn implements TimeclockHandler.
func (h *TimeclockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var clockInReq timeentry.ClockInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&clockInReq); err != nil {
			slog.Error("ClockIn decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	clockInReq.UserID = userID

	if err := clockInReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.timeclockService.ClockIn(r.Context(), clockInReq)
	if err != nil {
		slog.Error("ClockIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", entry)
}

// ClockOut implements TimeclockHandler. The request is multipart so the shift
// note attachment can ride along.
func (h *TimeclockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	if err := r.ParseMultipartForm(maxClockOutFormSize); err != nil {
		slog.Error("ClockOut multipart parse error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	clockOutReq := timeentry.ClockOutRequest{UserID: userID}

	if breakStr := r.FormValue("breakMinutes"); breakStr != "" {
		breakMinutes, err := strconv.Atoi(breakStr)
		if err != nil {
			response.ValidationError(w, map[string]string{"breakMinutes": "breakMinutes must be an integer"})
			return
		}
		clockOutReq.BreakMinutes = breakMinutes
	}
	if note := r.FormValue("note"); note != "" {
		clockOutReq.Note = &note
	}

	file, fileHeader, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		clockOutReq.File = file
		clockOutReq.FileHeader = fileHeader
	}

	signature, signatureHeader, err := r.FormFile("signature")
	if err == nil {
		defer signature.Close()
		clockOutReq.Signature = signature
		clockOutReq.SignatureHeader = signatureHeader
	}

	if err := clockOutReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.timeclockService.ClockOut(r.Context(), clockOutReq)
	if err != nil {
		slog.Error("ClockOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", entry)
}

// GetActive implements TimeclockHandler.
func (h *TimeclockHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	entry, err := h.timeclockService.GetActive(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// GetByID implements TimeclockHandler. Staff may only read their own entries;
// holders of the all-scope permission may read anyone's.
func (h *TimeclockHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	entry, err := h.timeclockService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if entry.UserID != userID && !user.HasPermission(role, user.PermissionTimeclockViewAll) {
		response.HandleError(w, timeentry.ErrEntryNotFound)
		return
	}

	response.Success(w, entry)
}

// ListMine implements TimeclockHandler.
func (h *TimeclockHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	entries, err := h.timeclockService.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// List implements TimeclockHandler.
func (h *TimeclockHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		entries, err := h.timeclockService.ListByUser(r.Context(), userID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, entries)
		return
	}

	entries, err := h.timeclockService.List(r.Context())
	if err != nil {
		slog.Error("List time entries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// Amend implements TimeclockHandler.
func (h *TimeclockHandlerImpl) Amend(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	var amendReq timeentry.AmendEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&amendReq); err != nil {
		slog.Error("Amend entry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	amendReq.ID = chi.URLParam(r, "id")

	if err := amendReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.timeclockService.Amend(r.Context(), amendReq, actorID)
	if err != nil {
		slog.Error("Amend entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry amended successfully", entry)
}

// Lock implements TimeclockHandler.
func (h *TimeclockHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	if err := h.timeclockService.Lock(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		slog.Error("Lock entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry locked", nil)
}

// Unlock implements TimeclockHandler.
func (h *TimeclockHandlerImpl) Unlock(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	if err := h.timeclockService.Unlock(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		slog.Error("Unlock entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry unlocked", nil)
}
