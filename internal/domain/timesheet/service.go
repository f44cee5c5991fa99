package timesheet

import (
	"context"
)

type TimesheetService interface {
	// Generate aggregates the user's completed time entries for the period
	// into a timesheet. Regenerating a pending, submitted, or rejected
	// period replaces it in place; approved and exported periods refuse
	// regeneration.
	Generate(ctx context.Context, req GenerateTimesheetRequest, actorID string) (TimesheetResponse, error)

	GetByID(ctx context.Context, id string) (TimesheetResponse, error)
	ListByUser(ctx context.Context, userID string) (ListTimesheetsResponse, error)
	List(ctx context.Context) (ListTimesheetsResponse, error)

	Submit(ctx context.Context, id string, actorID string) (TimesheetResponse, error)
	Approve(ctx context.Context, req ApproveTimesheetRequest) (TimesheetResponse, error)
	Reject(ctx context.Context, id string, actorID string) (TimesheetResponse, error)
	Export(ctx context.Context, id string, actorID string) (TimesheetResponse, error)
}
