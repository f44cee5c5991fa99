package schedule

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft    ScheduleStatus = "draft"
	ScheduleStatusActive   ScheduleStatus = "active"
	ScheduleStatusArchived ScheduleStatus = "archived"
)

var ScheduleStatusValues = []string{
	string(ScheduleStatusDraft),
	string(ScheduleStatusActive),
	string(ScheduleStatusArchived),
}

type Schedule struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    ScheduleStatus
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShiftTemplate is a reusable time-of-day pattern, independent of any
// schedule. Times are "HH:MM" strings; absolute timestamps belong to shifts.
type ShiftTemplate struct {
	ID        string
	Label     string
	StartTime string
	EndTime   string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ShiftStatus string

const (
	ShiftStatusOpen       ShiftStatus = "open"
	ShiftStatusAssigned   ShiftStatus = "assigned"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

var ShiftStatusValues = []string{
	string(ShiftStatusOpen),
	string(ShiftStatusAssigned),
	string(ShiftStatusInProgress),
	string(ShiftStatusCompleted),
	string(ShiftStatusCancelled),
}

// shiftTransitions enumerates the legal shift status transitions:
// open→assigned→in_progress→completed, with cancelled reachable from any
// non-terminal state. Rejecting the only active assignment additionally
// reverts assigned→open.
var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusOpen:       {ShiftStatusAssigned, ShiftStatusCancelled},
	ShiftStatusAssigned:   {ShiftStatusInProgress, ShiftStatusOpen, ShiftStatusCancelled},
	ShiftStatusInProgress: {ShiftStatusCompleted, ShiftStatusCancelled},
	ShiftStatusCompleted:  {},
	ShiftStatusCancelled:  {},
}

// CanTransition reports whether moving a shift from one status to another is
// allowed.
func CanTransition(from, to ShiftStatus) bool {
	for _, allowed := range shiftTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Shift struct {
	ID           string
	ScheduleID   *string
	TemplateID   *string
	JobName      string
	StartTime    time.Time
	EndTime      time.Time
	Status       ShiftStatus
	MaxAssignees int
	NoteExempt   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	Assignments []ShiftAssignment
}

// Transition validates and applies a status change. Invalid pairs fail with
// an InvalidTransitionError naming both states.
func (s *Shift) Transition(to ShiftStatus) error {
	if !CanTransition(s.Status, to) {
		return &InvalidTransitionError{From: s.Status, To: to}
	}
	s.Status = to
	return nil
}

// EffectiveStatus derives the time-driven assigned→in_progress transition at
// read time. The stored status is not advanced by a timer; an assigned shift
// whose start time has passed reads as in_progress.
func (s *Shift) EffectiveStatus(now time.Time) ShiftStatus {
	if s.Status == ShiftStatusAssigned && !now.Before(s.StartTime) {
		return ShiftStatusInProgress
	}
	return s.Status
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusRejected  AssignmentStatus = "rejected"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

var AssignmentStatusValues = []string{
	string(AssignmentStatusAssigned),
	string(AssignmentStatusAccepted),
	string(AssignmentStatusRejected),
	string(AssignmentStatusCompleted),
}

type ShiftAssignment struct {
	ID         string
	ShiftID    string
	UserID     string
	Status     AssignmentStatus
	AssignedAt time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	UserName *string
}

// IsActive reports whether the assignment counts against shift capacity.
// Rejected assignments free their slot.
func (a *ShiftAssignment) IsActive() bool {
	return a.Status != AssignmentStatusRejected
}
