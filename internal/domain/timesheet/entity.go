package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusExported  Status = "exported"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusSubmitted),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusExported),
}

// timesheetTransitions enumerates the legal status progression:
// pending→submitted→approved|rejected, approved→exported. A rejected
// timesheet goes back through aggregation, which resets it to pending.
var timesheetTransitions = map[Status][]Status{
	StatusPending:   {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusExported},
	StatusRejected:  {StatusPending},
	StatusExported:  {},
}

// CanTransition reports whether a timesheet may move between two statuses.
func CanTransition(from, to Status) bool {
	for _, allowed := range timesheetTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Timesheet struct {
	ID            string
	UserID        string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	TotalHours    decimal.Decimal
	Status        Status
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO / Join
	UserName *string
}

// IsFinal reports whether the timesheet may no longer be regenerated in
// place. Corrections to approved or exported periods require an adjustment,
// not an overwrite.
func (t *Timesheet) IsFinal() bool {
	return t.Status == StatusApproved || t.Status == StatusExported
}
