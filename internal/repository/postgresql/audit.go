package postgresql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

// auditLogRepositoryImpl is append-only: this type deliberately has no
// update or delete methods.
type auditLogRepositoryImpl struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) audit.AuditLogRepository {
	return &auditLogRepositoryImpl{db: db}
}

// Append implements audit.AuditLogRepository.
func (r *auditLogRepositoryImpl) Append(ctx context.Context, entry audit.AuditLog) (audit.AuditLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (actor_id, action, resource_type, resource_id, phi_accessed, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID, entry.PHIAccessed, entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return audit.AuditLog{}, fmt.Errorf("failed to append audit log: %w", err)
	}

	return entry, nil
}

// List implements audit.AuditLogRepository.
func (r *auditLogRepositoryImpl) List(ctx context.Context, filter audit.ListFilter) ([]audit.AuditLog, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, "actor_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ResourceType != nil {
		args = append(args, *filter.ResourceType)
		conditions = append(conditions, "resource_type = $"+strconv.Itoa(len(args)))
	}
	if filter.ResourceID != nil {
		args = append(args, *filter.ResourceID)
		conditions = append(conditions, "resource_id = $"+strconv.Itoa(len(args)))
	}
	if filter.PHIOnly {
		conditions = append(conditions, "phi_accessed = TRUE")
	}

	query := `SELECT id, actor_id, action, resource_type, resource_id, phi_accessed, detail, created_at FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.AuditLog
	for rows.Next() {
		var l audit.AuditLog
		err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.ResourceType, &l.ResourceID, &l.PHIAccessed, &l.Detail, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
