package audit

import "time"

type AuditLogResponse struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actorId"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	PHIAccessed  bool      `json:"phiAccessed"`
	Detail       *string   `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ToResponse(l AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:           l.ID,
		ActorID:      l.ActorID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		PHIAccessed:  l.PHIAccessed,
		Detail:       l.Detail,
		CreatedAt:    l.CreatedAt,
	}
}

type ListAuditLogsResponse struct {
	Logs []AuditLogResponse `json:"logs"`
}
