package timeentry

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusLocked    Status = "locked"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusCompleted),
	string(StatusLocked),
}

type TimeEntry struct {
	ID           string
	UserID       string
	ShiftID      *string
	ClockIn      time.Time
	ClockOut     *time.Time
	BreakMinutes int
	Status       Status
	Attachments  []string
	SignaturePath *string
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the entry is an open clock session. Active
// entries always have a null clock-out.
func (e *TimeEntry) IsActive() bool {
	return e.Status == StatusActive
}

// IsLocked reports whether the entry rejects mutation.
func (e *TimeEntry) IsLocked() bool {
	return e.Status == StatusLocked
}

// Elapsed returns worked time net of breaks. Zero for entries still active.
func (e *TimeEntry) Elapsed() time.Duration {
	if e.ClockOut == nil {
		return 0
	}
	worked := e.ClockOut.Sub(e.ClockIn) - time.Duration(e.BreakMinutes)*time.Minute
	if worked < 0 {
		return 0
	}
	return worked
}
