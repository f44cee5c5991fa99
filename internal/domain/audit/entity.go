package audit

import "time"

// AuditLog is an append-only record of PHI-relevant actions. There are no
// update or delete paths anywhere in the repository.
type AuditLog struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	PHIAccessed  bool
	Detail       *string
	CreatedAt    time.Time
}

// Actions recorded in the audit trail.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionArchive = "archive"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionLock    = "lock"
	ActionUnlock  = "unlock"
	ActionExport  = "export"
	ActionView    = "view"
)

// Resource types referenced by audit entries.
const (
	ResourceUser      = "user"
	ResourceShift     = "shift"
	ResourceTimeEntry = "time_entry"
	ResourceTimesheet = "timesheet"
	ResourceDocument  = "document"
)
