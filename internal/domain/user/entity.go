package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOwner     Role = "owner"     // Organization owner - full access
	RoleAdmin     Role = "admin"     // Administrative staff - full access minus ownership transfer
	RoleScheduler Role = "scheduler" // Builds schedules and assigns shifts
	RolePayroll   Role = "payroll"   // Approves and exports timesheets
	RoleHR        Role = "hr"        // Manages users and credential documents
	RoleManager   Role = "manager"   // Supervises staff, approves records
	RoleStaff     Role = "staff"     // Regular staff member
	RoleCNA       Role = "cna"       // Certified Nursing Assistant
	RoleLPN       Role = "lpn"       // Licensed Practical Nurse
	RoleRN        Role = "rn"        // Registered Nurse
)

var RoleValues = []string{
	string(RoleOwner),
	string(RoleAdmin),
	string(RoleScheduler),
	string(RolePayroll),
	string(RoleHR),
	string(RoleManager),
	string(RoleStaff),
	string(RoleCNA),
	string(RoleLPN),
	string(RoleRN),
}

type Status string

const (
	StatusActive            Status = "active"
	StatusArchived          Status = "archived"
	StatusPendingOnboarding Status = "pending_onboarding"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusArchived),
	string(StatusPendingOnboarding),
}

type User struct {
	ID                  string
	FullName            string
	Email               string
	PasswordHash        *string
	Role                Role
	HourlyRate          decimal.Decimal
	JobRates            map[string]decimal.Decimal
	Status              Status
	OnboardingToken     *string
	OnboardingExpiresAt *time.Time
	OnboardingCompleted bool
	OAuthProvider       *string
	OAuthProviderID     *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsActive checks if the user can log in and act
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsPendingOnboarding checks if the user still has to complete onboarding
func (u *User) IsPendingOnboarding() bool {
	return u.Status == StatusPendingOnboarding
}

// OnboardingTokenValid reports whether the onboarding token can still be
// consumed at the given instant. A completed onboarding clears the token,
// so a nil token always fails.
func (u *User) OnboardingTokenValid(now time.Time) bool {
	if u.OnboardingToken == nil || u.OnboardingExpiresAt == nil {
		return false
	}
	if u.OnboardingCompleted {
		return false
	}
	return now.Before(*u.OnboardingExpiresAt)
}

// RateForJob resolves the effective hourly rate for a job name, falling back
// to the base hourly rate when no override exists.
func (u *User) RateForJob(jobName string) decimal.Decimal {
	if rate, ok := u.JobRates[jobName]; ok {
		return rate
	}
	return u.HourlyRate
}
