package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	// Upsert replaces the row keyed by (userID, periodStart). Callers must
	// verify the existing row is not approved or exported first.
	Upsert(ctx context.Context, t Timesheet) (Timesheet, error)

	GetByID(ctx context.Context, id string) (Timesheet, error)
	GetByUserAndPeriod(ctx context.Context, userID string, periodStart time.Time) (Timesheet, error)
	ListByUser(ctx context.Context, userID string) ([]Timesheet, error)
	List(ctx context.Context) ([]Timesheet, error)

	UpdateStatus(ctx context.Context, id string, status Status) error

	// Approve sets status, approver, and approval timestamp together.
	Approve(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error
}
