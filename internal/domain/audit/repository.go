package audit

import (
	"context"
)

type ListFilter struct {
	ActorID      *string
	ResourceType *string
	ResourceID   *string
	PHIOnly      bool
}

type AuditLogRepository interface {
	// Append writes an audit entry. Callers run it inside the same
	// transaction as the mutation it records; if the append fails, the
	// mutation fails with it.
	Append(ctx context.Context, entry AuditLog) (AuditLog, error)

	List(ctx context.Context, filter ListFilter) ([]AuditLog, error)
}
