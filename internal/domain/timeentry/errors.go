package timeentry

import "errors"

var (
	ErrEntryNotFound      = errors.New("time entry not found")
	ErrAlreadyClockedIn   = errors.New("an active time entry already exists for this user")
	ErrNotClockedIn       = errors.New("no active time entry found for this user")
	ErrEntryLocked        = errors.New("time entry is locked")
	ErrEntryNotLocked     = errors.New("time entry is not locked")
	ErrAttachmentRequired = errors.New("a shift note attachment is required to clock out")
	ErrClockOutBeforeIn   = errors.New("clock-out must be after clock-in")
)
