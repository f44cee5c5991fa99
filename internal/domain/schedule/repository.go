package schedule

import (
	"context"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string) (Schedule, error)
	List(ctx context.Context) ([]Schedule, error)
	Update(ctx context.Context, s Schedule) (Schedule, error)
	UpdateStatus(ctx context.Context, id string, status ScheduleStatus) error
}

type ShiftTemplateRepository interface {
	Create(ctx context.Context, t ShiftTemplate) (ShiftTemplate, error)
	GetByID(ctx context.Context, id string) (ShiftTemplate, error)
	List(ctx context.Context) ([]ShiftTemplate, error)
	Delete(ctx context.Context, id string) error
}

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)

	// GetByIDForUpdate locks the shift row for the duration of the enclosing
	// transaction. Capacity checks must go through this to stay race-free.
	GetByIDForUpdate(ctx context.Context, id string) (Shift, error)

	ListBySchedule(ctx context.Context, scheduleID string) ([]Shift, error)
	List(ctx context.Context) ([]Shift, error)
	UpdateStatus(ctx context.Context, id string, status ShiftStatus) error
}

type ShiftAssignmentRepository interface {
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string) (ShiftAssignment, error)
	ListByShift(ctx context.Context, shiftID string) ([]ShiftAssignment, error)
	ListByUser(ctx context.Context, userID string) ([]ShiftAssignment, error)

	// CountActiveByShift counts assignments in a non-rejected state.
	CountActiveByShift(ctx context.Context, shiftID string) (int, error)

	UpdateStatus(ctx context.Context, id string, status AssignmentStatus) error
	Accept(ctx context.Context, id string) (ShiftAssignment, error)

	// CompleteActiveByShift marks every non-rejected assignment on the shift
	// as completed.
	CompleteActiveByShift(ctx context.Context, shiftID string) error
}
