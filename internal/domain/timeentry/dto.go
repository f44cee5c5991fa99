package timeentry

import (
	"mime/multipart"
	"time"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

type ClockInRequest struct {
	UserID  string  `json:"-"`
	ShiftID *string `json:"shiftId"`
	Note    *string `json:"note"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}
	if r.ShiftID != nil && validator.IsEmpty(*r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shiftId",
			Message: "shiftId must not be empty when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	UserID       string  `json:"-"`
	BreakMinutes int     `json:"breakMinutes"`
	Note         *string `json:"note"`

	// Shift-note attachment, required unless the shift's job is
	// attachment-exempt
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`

	// Optional supervisor signature image
	Signature       multipart.File        `json:"-"`
	SignatureHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "breakMinutes",
			Message: "breakMinutes must not be negative",
		})
	}
	if r.FileHeader != nil && r.FileHeader.Size > 10<<20 { // 10MB
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "shift note attachment size must not exceed 10MB",
		})
	}
	if r.SignatureHeader != nil && r.SignatureHeader.Size > 2<<20 { // 2MB
		errs = append(errs, validator.ValidationError{
			Field:   "signature",
			Message: "signature size must not exceed 2MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AmendEntryRequest struct {
	ID           string  `json:"-"`
	ClockIn      *string `json:"clockIn"`
	ClockOut     *string `json:"clockOut"`
	BreakMinutes *int    `json:"breakMinutes"`
	Note         *string `json:"note"`

	parsedClockIn  *time.Time
	parsedClockOut *time.Time
}

func (r *AmendEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClockIn != nil {
		t, ok := validator.IsValidDateTime(*r.ClockIn)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clockIn",
				Message: "clockIn must be an ISO8601 timestamp",
			})
		} else {
			r.parsedClockIn = &t
		}
	}
	if r.ClockOut != nil {
		t, ok := validator.IsValidDateTime(*r.ClockOut)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clockOut",
				Message: "clockOut must be an ISO8601 timestamp",
			})
		} else {
			r.parsedClockOut = &t
		}
	}
	if r.parsedClockIn != nil && r.parsedClockOut != nil && !r.parsedClockIn.Before(*r.parsedClockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "clockOut",
			Message: "clockOut must be after clockIn",
		})
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "breakMinutes",
			Message: "breakMinutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Times returns the parsed timestamps. Validate must have succeeded first.
func (r *AmendEntryRequest) Times() (*time.Time, *time.Time) {
	return r.parsedClockIn, r.parsedClockOut
}

type TimeEntryResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	ShiftID       *string    `json:"shiftId,omitempty"`
	ClockIn       time.Time  `json:"clockIn"`
	ClockOut      *time.Time `json:"clockOut,omitempty"`
	BreakMinutes  int        `json:"breakMinutes"`
	Status        string     `json:"status"`
	Attachments   []string   `json:"attachments,omitempty"`
	SignaturePath *string    `json:"signaturePath,omitempty"`
	Note          *string    `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func ToResponse(e TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		ShiftID:       e.ShiftID,
		ClockIn:       e.ClockIn,
		ClockOut:      e.ClockOut,
		BreakMinutes:  e.BreakMinutes,
		Status:        string(e.Status),
		Attachments:   e.Attachments,
		SignaturePath: e.SignaturePath,
		Note:          e.Note,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

type ListTimeEntriesResponse struct {
	Entries []TimeEntryResponse `json:"entries"`
}
