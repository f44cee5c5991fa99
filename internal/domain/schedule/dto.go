package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

// ========================================
// SCHEDULE DTOs
// ========================================

type CreateScheduleRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`

	// Populated from the authenticated session
	CreatedBy string `json:"-"`

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be a valid date (YYYY-MM-DD)",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be a valid date (YYYY-MM-DD)",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if r.Status == "" {
		r.Status = string(ScheduleStatusDraft)
	}
	if !validator.IsInSlice(r.Status, ScheduleStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, active, archived",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.parsedStart = start
	r.parsedEnd = end
	return nil
}

// DateRange returns the parsed period. Validate must have succeeded first.
func (r *CreateScheduleRequest) DateRange() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type UpdateScheduleRequest struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be a valid date (YYYY-MM-DD)",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be a valid date (YYYY-MM-DD)",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.parsedStart = start
	r.parsedEnd = end
	return nil
}

// DateRange returns the parsed period. Validate must have succeeded first.
func (r *UpdateScheduleRequest) DateRange() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type ScheduleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToScheduleResponse(s Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
		Status:    string(s.Status),
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ========================================
// SHIFT TEMPLATE DTOs
// ========================================

type CreateShiftTemplateRequest struct {
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Color     string `json:"color"`
}

func (r *CreateShiftTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{
			Field:   "label",
			Message: "label is required",
		})
	}
	if !validator.IsValidTimeOfDay(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "startTime",
			Message: "startTime must be a valid time of day (HH:MM)",
		})
	}
	if !validator.IsValidTimeOfDay(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be a valid time of day (HH:MM)",
		})
	}
	if r.Color != "" && !validator.IsValidHexColor(r.Color) {
		errs = append(errs, validator.ValidationError{
			Field:   "color",
			Message: "color must be a hex color like #3b82f6",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftTemplateResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToShiftTemplateResponse(t ShiftTemplate) ShiftTemplateResponse {
	return ShiftTemplateResponse{
		ID:        t.ID,
		Label:     t.Label,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	ScheduleID   *string `json:"scheduleId"`
	TemplateID   *string `json:"templateId"`
	JobName      string  `json:"jobName"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	MaxAssignees int     `json:"maxAssignees"`
	NoteExempt   bool    `json:"noteExempt"`

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobName) {
		errs = append(errs, validator.ValidationError{
			Field:   "jobName",
			Message: "jobName is required",
		})
	}

	start, okStart := validator.IsValidDateTime(r.StartTime)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "startTime",
			Message: "startTime must be an ISO8601 timestamp",
		})
	}
	end, okEnd := validator.IsValidDateTime(r.EndTime)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be an ISO8601 timestamp",
		})
	}
	if okStart && okEnd && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be after startTime",
		})
	}

	if r.MaxAssignees == 0 {
		r.MaxAssignees = 1
	}
	if r.MaxAssignees < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "maxAssignees",
			Message: "maxAssignees must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.parsedStart = start
	r.parsedEnd = end
	return nil
}

// Interval returns the parsed shift interval. Validate must have succeeded first.
func (r *CreateShiftRequest) Interval() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type TransitionShiftRequest struct {
	ShiftID string `json:"-"`
	Status  string `json:"status"`
}

func (r *TransitionShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, ShiftStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: open, assigned, in_progress, completed, cancelled",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID           string                    `json:"id"`
	ScheduleID   *string                   `json:"scheduleId,omitempty"`
	TemplateID   *string                   `json:"templateId,omitempty"`
	JobName      string                    `json:"jobName"`
	StartTime    time.Time                 `json:"startTime"`
	EndTime      time.Time                 `json:"endTime"`
	Status       string                    `json:"status"`
	MaxAssignees int                       `json:"maxAssignees"`
	NoteExempt   bool                      `json:"noteExempt"`
	Assignments  []ShiftAssignmentResponse `json:"assignments,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// ToShiftResponse renders a shift with its status derived at the given
// instant, never the raw stored value.
func ToShiftResponse(s Shift, now time.Time) ShiftResponse {
	resp := ShiftResponse{
		ID:           s.ID,
		ScheduleID:   s.ScheduleID,
		TemplateID:   s.TemplateID,
		JobName:      s.JobName,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Status:       string(s.EffectiveStatus(now)),
		MaxAssignees: s.MaxAssignees,
		NoteExempt:   s.NoteExempt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, a := range s.Assignments {
		resp.Assignments = append(resp.Assignments, ToShiftAssignmentResponse(a))
	}
	return resp
}

// ========================================
// SHIFT ASSIGNMENT DTOs
// ========================================

type CreateAssignmentRequest struct {
	ShiftID string `json:"-"`
	UserID  string `json:"userId"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftAssignmentResponse struct {
	ID         string     `json:"id"`
	ShiftID    string     `json:"shiftId"`
	UserID     string     `json:"userId"`
	UserName   *string    `json:"userName,omitempty"`
	Status     string     `json:"status"`
	AssignedAt time.Time  `json:"assignedAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// Effective hourly rate for the shift's job, resolved against the
	// assignee's per-job overrides at assignment time.
	JobRate *decimal.Decimal `json:"jobRate,omitempty"`
}

func ToShiftAssignmentResponse(a ShiftAssignment) ShiftAssignmentResponse {
	return ShiftAssignmentResponse{
		ID:         a.ID,
		ShiftID:    a.ShiftID,
		UserID:     a.UserID,
		UserName:   a.UserName,
		Status:     string(a.Status),
		AssignedAt: a.AssignedAt,
		AcceptedAt: a.AcceptedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
