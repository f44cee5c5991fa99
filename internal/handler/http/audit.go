package http

import (
	"log/slog"
	"net/http"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	auditService audit.AuditLogService
}

func NewAuditHandler(auditService audit.AuditLogService) AuditHandler {
	return &AuditHandlerImpl{auditService: auditService}
}

// List implements AuditHandler.
func (h *AuditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter audit.ListFilter

	q := r.URL.Query()
	if actorID := q.Get("actorId"); actorID != "" {
		filter.ActorID = &actorID
	}
	if resourceType := q.Get("resourceType"); resourceType != "" {
		filter.ResourceType = &resourceType
	}
	if resourceID := q.Get("resourceId"); resourceID != "" {
		filter.ResourceID = &resourceID
	}
	filter.PHIOnly = q.Get("phiOnly") == "true"

	logs, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List audit logs service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, logs)
}
