package response

import (
	"errors"
	"net/http"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/auth"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/document"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timesheet"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountArchived):
		Forbidden(w, "Account is archived")
	case errors.Is(err, auth.ErrOnboardingRequired):
		Forbidden(w, "Onboarding must be completed before logging in")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserArchived):
		Conflict(w, "User is archived")
	case errors.Is(err, user.ErrOnboardingTokenInvalid):
		Unauthorized(w, "Onboarding token is invalid or expired")
	case errors.Is(err, user.ErrOnboardingTokenConsumed):
		Conflict(w, "Onboarding token has already been used")
	case errors.Is(err, user.ErrOnboardingNotPending):
		Conflict(w, "User is not pending onboarding")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Scheduling domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, schedule.ErrInvalidTransition):
		ConflictWithCode(w, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, schedule.ErrCapacityExceeded):
		ConflictWithCode(w, "CAPACITY_EXCEEDED", "Shift is already at maximum assignees")
	case errors.Is(err, schedule.ErrDuplicateAssignee):
		ConflictWithCode(w, "DUPLICATE_ASSIGNEE", "User is already assigned to this shift")
	case errors.Is(err, schedule.ErrAssignmentDecided):
		Conflict(w, "Assignment has already been accepted or rejected")
	case errors.Is(err, schedule.ErrShiftNotAssignable):
		Conflict(w, "Shift does not accept assignments in its current status")

	// Timeclock domain errors
	case errors.Is(err, timeentry.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrAlreadyClockedIn):
		ConflictWithCode(w, "ALREADY_CLOCKED_IN", "An active time entry already exists for this user")
	case errors.Is(err, timeentry.ErrNotClockedIn):
		ConflictWithCode(w, "NOT_CLOCKED_IN", "No active time entry found for this user")
	case errors.Is(err, timeentry.ErrEntryLocked):
		ConflictWithCode(w, "ENTRY_LOCKED", "Time entry is locked")
	case errors.Is(err, timeentry.ErrEntryNotLocked):
		Conflict(w, "Time entry is not locked")
	case errors.Is(err, timeentry.ErrAttachmentRequired):
		BadRequest(w, "A shift note attachment is required to clock out", nil)
	case errors.Is(err, timeentry.ErrClockOutBeforeIn):
		BadRequest(w, "Clock-out must be after clock-in", nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrTimesheetFinal):
		ConflictWithCode(w, "TIMESHEET_FINAL", "Timesheet has been approved or exported and cannot be regenerated")
	case errors.Is(err, timesheet.ErrInvalidTransition):
		ConflictWithCode(w, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, timesheet.ErrApproverRequired):
		BadRequest(w, "Approval requires an approver", nil)
	case errors.Is(err, timesheet.ErrNoCompletedEntries):
		BadRequest(w, "No completed time entries found in the period", nil)

	// Document domain errors
	case errors.Is(err, document.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, document.ErrDocumentAlreadyReviewed):
		Conflict(w, "Document has already been approved or rejected")
	case errors.Is(err, document.ErrNotDocumentOwner):
		Forbidden(w, "Document belongs to another user")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
