package audit

import (
	"context"
)

type AuditLogService interface {
	List(ctx context.Context, filter ListFilter) (ListAuditLogsResponse, error)
}
