package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

type GenerateTimesheetRequest struct {
	UserID      string `json:"userId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *GenerateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "periodStart",
			Message: "periodStart must be a valid date (YYYY-MM-DD)",
		})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "periodEnd",
			Message: "periodEnd must be a valid date (YYYY-MM-DD)",
		})
	}
	if okStart && okEnd && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "periodEnd",
			Message: "periodEnd must be after periodStart",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.parsedStart = start
	r.parsedEnd = end
	return nil
}

// Period returns the parsed pay period. Validate must have succeeded first.
func (r *GenerateTimesheetRequest) Period() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type ApproveTimesheetRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"-"`
}

type TimesheetResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	UserName      *string         `json:"userName,omitempty"`
	PeriodStart   string          `json:"periodStart"`
	PeriodEnd     string          `json:"periodEnd"`
	RegularHours  decimal.Decimal `json:"regularHours"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
	TotalHours    decimal.Decimal `json:"totalHours"`
	Status        string          `json:"status"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func ToResponse(t Timesheet) TimesheetResponse {
	return TimesheetResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		UserName:      t.UserName,
		PeriodStart:   t.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     t.PeriodEnd.Format("2006-01-02"),
		RegularHours:  t.RegularHours,
		OvertimeHours: t.OvertimeHours,
		TotalHours:    t.TotalHours,
		Status:        string(t.Status),
		ApprovedBy:    t.ApprovedBy,
		ApprovedAt:    t.ApprovedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

type ListTimesheetsResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
}
