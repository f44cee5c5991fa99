package schedule

import (
	"context"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ListSchedules(ctx context.Context) ([]ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)
	UpdateScheduleStatus(ctx context.Context, id string, status ScheduleStatus) error

	CreateShiftTemplate(ctx context.Context, req CreateShiftTemplateRequest) (ShiftTemplateResponse, error)
	ListShiftTemplates(ctx context.Context) ([]ShiftTemplateResponse, error)
	DeleteShiftTemplate(ctx context.Context, id string) error

	CreateShift(ctx context.Context, req CreateShiftRequest, actorID string) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context) ([]ShiftResponse, error)
	ListShiftsBySchedule(ctx context.Context, scheduleID string) ([]ShiftResponse, error)

	// TransitionShift applies an explicit status change, subject to the
	// shift state machine.
	TransitionShift(ctx context.Context, req TransitionShiftRequest, actorID string) (ShiftResponse, error)

	// AssignUser adds a user to a shift, enforcing capacity under a row
	// lock so concurrent assignments cannot overfill the shift. The
	// response carries the assignee's effective rate for the shift's job.
	AssignUser(ctx context.Context, req CreateAssignmentRequest, actorID string) (ShiftAssignmentResponse, error)

	ListAssignmentsByUser(ctx context.Context, userID string) ([]ShiftAssignmentResponse, error)

	AcceptAssignment(ctx context.Context, assignmentID string, userID string) (ShiftAssignmentResponse, error)

	// RejectAssignment frees the capacity slot. When it was the shift's
	// last active assignment, the shift reverts to open.
	RejectAssignment(ctx context.Context, assignmentID string, userID string) (ShiftAssignmentResponse, error)
}
