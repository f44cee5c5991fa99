package document

import (
	"mime/multipart"
	"time"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

type UploadDocumentRequest struct {
	UserID     string `json:"-"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiryDate"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`

	parsedExpiry *time.Time
}

func (r *UploadDocumentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}
	if r.ExpiryDate != "" {
		expiry, ok := validator.IsValidDate(r.ExpiryDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expiryDate",
				Message: "expiryDate must be a valid date (YYYY-MM-DD)",
			})
		} else {
			r.parsedExpiry = &expiry
		}
	}
	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "document file is required",
		})
	} else if r.FileHeader.Size > 20<<20 { // 20MB
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "document file size must not exceed 20MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Expiry returns the parsed expiry date, nil when none was supplied.
// Validate must have succeeded first.
func (r *UploadDocumentRequest) Expiry() *time.Time {
	return r.parsedExpiry
}

type ReviewDocumentRequest struct {
	ID         string `json:"-"`
	ReviewedBy string `json:"-"`
	Approve    bool   `json:"-"`
}

type DocumentResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	UserName   *string    `json:"userName,omitempty"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	FilePath   string     `json:"filePath"`
	Status     string     `json:"status"`
	ExpiryDate *string    `json:"expiryDate,omitempty"`
	ReviewedBy *string    `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ToResponse renders a document with its effective status derived at the
// given instant.
func ToResponse(d Document, now time.Time, warningWindow time.Duration) DocumentResponse {
	resp := DocumentResponse{
		ID:         d.ID,
		UserID:     d.UserID,
		UserName:   d.UserName,
		Name:       d.Name,
		Category:   d.Category,
		FilePath:   d.FilePath,
		Status:     string(d.EffectiveStatus(now, warningWindow)),
		ReviewedBy: d.ReviewedBy,
		ReviewedAt: d.ReviewedAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.ExpiryDate != nil {
		formatted := d.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &formatted
	}
	return resp
}

type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ExpiringCountResponse is the server-computed badge count for credential
// documents nearing expiry.
type ExpiringCountResponse struct {
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

// ExpiringNoticesResponse reports how many expiry reminders were sent.
type ExpiringNoticesResponse struct {
	Notified int `json:"notified"`
}
