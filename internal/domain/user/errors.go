package user

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrUserEmailExists          = errors.New("email already registered")
	ErrUserArchived             = errors.New("user is archived")
	ErrOnboardingTokenInvalid   = errors.New("onboarding token is invalid or expired")
	ErrOnboardingTokenConsumed  = errors.New("onboarding token has already been used")
	ErrOnboardingNotPending     = errors.New("user is not pending onboarding")
	ErrInsufficientPermissions  = errors.New("insufficient permissions")
	ErrUpdatedAtBeforeCreatedAt = errors.New("updated_at cannot be before created_at")
)
