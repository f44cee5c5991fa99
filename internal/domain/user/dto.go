package user

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/validator"
)

type CreateUserRequest struct {
	FullName   string                     `json:"fullName"`
	Email      string                     `json:"email"`
	Role       string                     `json:"role"`
	HourlyRate decimal.Decimal            `json:"hourlyRate"`
	JobRates   map[string]decimal.Decimal `json:"jobRates"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "fullName",
			Message: "fullName is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: owner, admin, scheduler, payroll, hr, manager, staff, cna, lpn, rn",
		})
	}

	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourlyRate",
			Message: "hourlyRate must not be negative",
		})
	}

	for jobName, rate := range r.JobRates {
		if validator.IsEmpty(jobName) {
			errs = append(errs, validator.ValidationError{
				Field:   "jobRates",
				Message: "job names must not be empty",
			})
		}
		if rate.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "jobRates." + jobName,
				Message: "rate must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateUserRequest struct {
	ID         string                     `json:"-"`
	FullName   *string                    `json:"fullName"`
	Role       *string                    `json:"role"`
	HourlyRate *decimal.Decimal           `json:"hourlyRate"`
	JobRates   map[string]decimal.Decimal `json:"jobRates"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "fullName",
			Message: "fullName must not be empty",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: owner, admin, scheduler, payroll, hr, manager, staff, cna, lpn, rn",
		})
	}

	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourlyRate",
			Message: "hourlyRate must not be negative",
		})
	}

	for jobName, rate := range r.JobRates {
		if validator.IsEmpty(jobName) {
			errs = append(errs, validator.ValidationError{
				Field:   "jobRates",
				Message: "job names must not be empty",
			})
		}
		if rate.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "jobRates." + jobName,
				Message: "rate must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UserResponse struct {
	ID                  string                     `json:"id"`
	FullName            string                     `json:"fullName"`
	Email               string                     `json:"email"`
	Role                string                     `json:"role"`
	HourlyRate          decimal.Decimal            `json:"hourlyRate"`
	JobRates            map[string]decimal.Decimal `json:"jobRates,omitempty"`
	Status              string                     `json:"status"`
	OnboardingCompleted bool                       `json:"onboardingCompleted"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// CreatedUserResponse carries the onboarding token back to the creator so it
// can be forwarded out of band when email delivery is not configured.
type CreatedUserResponse struct {
	UserResponse
	OnboardingToken     string    `json:"onboardingToken"`
	OnboardingExpiresAt time.Time `json:"onboardingExpiresAt"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		FullName:            u.FullName,
		Email:               u.Email,
		Role:                string(u.Role),
		HourlyRate:          u.HourlyRate,
		JobRates:            u.JobRates,
		Status:              string(u.Status),
		OnboardingCompleted: u.OnboardingCompleted,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
