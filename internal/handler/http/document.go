package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/document"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
)

const maxDocumentFormSize = 22 << 20 // form fields plus a 20MB file

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	ExpiringCount(w http.ResponseWriter, r *http.Request)
	NotifyExpiring(w http.ResponseWriter, r *http.Request)
}

type DocumentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &DocumentHandlerImpl{documentService: documentService}
}

// Upload implements DocumentHandler.
func (h *DocumentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	if err := r.ParseMultipartForm(maxDocumentFormSize); err != nil {
		slog.Error("Upload document multipart parse error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	uploadReq := document.UploadDocumentRequest{
		UserID:     userID,
		Name:       r.FormValue("name"),
		Category:   r.FormValue("category"),
		ExpiryDate: r.FormValue("expiryDate"),
	}

	file, fileHeader, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		uploadReq.File = file
		uploadReq.FileHeader = fileHeader
	}

	if err := uploadReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.documentService.Upload(r.Context(), uploadReq)
	if err != nil {
		slog.Error("Upload document service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document uploaded successfully", created)
}

// GetByID implements DocumentHandler.
func (h *DocumentHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	doc, err := h.documentService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if doc.UserID != userID && !user.HasPermission(role, user.PermissionDocumentViewAll) {
		response.HandleError(w, document.ErrDocumentNotFound)
		return
	}

	response.Success(w, doc)
}

// Download implements DocumentHandler.
func (h *DocumentHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	doc, reader, err := h.documentService.Download(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer reader.Close()

	if doc.UserID != userID && !user.HasPermission(role, user.PermissionDocumentViewAll) {
		response.HandleError(w, document.ErrDocumentNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Download document stream error", "error", err)
	}
}

// ListMine implements DocumentHandler.
func (h *DocumentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	docs, err := h.documentService.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, docs)
}

// List implements DocumentHandler.
func (h *DocumentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		docs, err := h.documentService.ListByUser(r.Context(), userID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, docs)
		return
	}

	docs, err := h.documentService.List(r.Context())
	if err != nil {
		slog.Error("List documents service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, docs)
}

// Approve implements DocumentHandler.
func (h *DocumentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

// Reject implements DocumentHandler.
func (h *DocumentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *DocumentHandlerImpl) review(w http.ResponseWriter, r *http.Request, approve bool) {
	actorID, _, ok := identityFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	reviewReq := document.ReviewDocumentRequest{
		ID:         chi.URLParam(r, "id"),
		ReviewedBy: actorID,
		Approve:    approve,
	}

	doc, err := h.documentService.Review(r.Context(), reviewReq)
	if err != nil {
		slog.Error("Review document service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Document rejected"
	if approve {
		message = "Document approved"
	}
	response.SuccessWithMessage(w, message, doc)
}

// ExpiringCount implements DocumentHandler.
func (h *DocumentHandlerImpl) ExpiringCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.documentService.ExpiringCount(r.Context())
	if err != nil {
		slog.Error("Expiring count service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, count)
}

// NotifyExpiring implements DocumentHandler. Meant to be hit by an external
// periodic trigger.
func (h *DocumentHandlerImpl) NotifyExpiring(w http.ResponseWriter, r *http.Request) {
	sent, err := h.documentService.NotifyExpiring(r.Context())
	if err != nil {
		slog.Error("Notify expiring service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expiry notices sent", sent)
}
