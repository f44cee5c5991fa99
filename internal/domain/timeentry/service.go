package timeentry

import (
	"context"
)

type TimeclockService interface {
	// ClockIn opens a clock session. A user can hold at most one active
	// session at a time.
	ClockIn(ctx context.Context, req ClockInRequest) (TimeEntryResponse, error)

	// ClockOut closes the user's active session. A shift note attachment is
	// required unless the linked shift is attachment-exempt.
	ClockOut(ctx context.Context, req ClockOutRequest) (TimeEntryResponse, error)

	GetActive(ctx context.Context, userID string) (TimeEntryResponse, error)
	GetByID(ctx context.Context, id string) (TimeEntryResponse, error)
	ListByUser(ctx context.Context, userID string) (ListTimeEntriesResponse, error)
	List(ctx context.Context) (ListTimeEntriesResponse, error)

	// Amend corrects a completed entry's times, break, or note. Locked
	// entries refuse amendment.
	Amend(ctx context.Context, req AmendEntryRequest, actorID string) (TimeEntryResponse, error)

	Lock(ctx context.Context, id string, actorID string) error
	Unlock(ctx context.Context, id string, actorID string) error
}
