package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrTemplateNotFound   = errors.New("shift template not found")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrAssignmentNotFound = errors.New("shift assignment not found")

	ErrInvalidTransition  = errors.New("invalid shift status transition")
	ErrCapacityExceeded   = errors.New("shift is already at maximum assignees")
	ErrDuplicateAssignee  = errors.New("user is already assigned to this shift")
	ErrAssignmentDecided  = errors.New("assignment has already been accepted or rejected")
	ErrShiftNotAssignable = errors.New("shift does not accept assignments in its current status")
)

// InvalidTransitionError names the disallowed status pair. It matches
// ErrInvalidTransition under errors.Is.
type InvalidTransitionError struct {
	From ShiftStatus
	To   ShiftStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid shift status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
