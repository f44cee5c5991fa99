package timesheet

import (
	"errors"
	"fmt"
)

var (
	ErrTimesheetNotFound  = errors.New("timesheet not found")
	ErrTimesheetFinal     = errors.New("timesheet has been approved or exported and cannot be regenerated")
	ErrInvalidTransition  = errors.New("invalid timesheet status transition")
	ErrApproverRequired   = errors.New("approval requires an approver")
	ErrNoCompletedEntries = errors.New("no completed time entries found in the period")
)

// InvalidTransitionError names the disallowed status pair. It matches
// ErrInvalidTransition under errors.Is.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid timesheet status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
