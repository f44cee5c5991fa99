package audit

import (
	"context"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
)

type AuditLogServiceImpl struct {
	audit.AuditLogRepository
}

func NewAuditLogService(auditRepository audit.AuditLogRepository) audit.AuditLogService {
	return &AuditLogServiceImpl{AuditLogRepository: auditRepository}
}

// List implements audit.AuditLogService.
func (s *AuditLogServiceImpl) List(ctx context.Context, filter audit.ListFilter) (audit.ListAuditLogsResponse, error) {
	logs, err := s.AuditLogRepository.List(ctx, filter)
	if err != nil {
		return audit.ListAuditLogsResponse{}, err
	}

	resp := audit.ListAuditLogsResponse{Logs: make([]audit.AuditLogResponse, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, audit.ToResponse(l))
	}
	return resp, nil
}
