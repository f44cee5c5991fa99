package timeentry

import (
	"context"
	"time"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, e TimeEntry) (TimeEntry, error)
	GetByID(ctx context.Context, id string) (TimeEntry, error)

	// GetActiveByUser returns the user's open clock session, or
	// ErrNotClockedIn when none exists.
	GetActiveByUser(ctx context.Context, userID string) (TimeEntry, error)

	ListByUser(ctx context.Context, userID string) ([]TimeEntry, error)
	List(ctx context.Context) ([]TimeEntry, error)

	// ListCompletedInPeriod returns completed or locked entries whose clockIn
	// falls within [periodStart, periodEnd), ordered by clockIn.
	ListCompletedInPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) ([]TimeEntry, error)

	Update(ctx context.Context, e TimeEntry) (TimeEntry, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddAttachment(ctx context.Context, id string, path string) error
}
