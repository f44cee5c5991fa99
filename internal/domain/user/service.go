package user

import (
	"context"
)

type UserService interface {
	// Create provisions a pending account and issues its onboarding token.
	Create(ctx context.Context, req CreateUserRequest, actorID string) (CreatedUserResponse, error)

	GetByID(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context) (ListUsersResponse, error)
	Update(ctx context.Context, req UpdateUserRequest, actorID string) (UserResponse, error)

	// Archive soft-disables the account. Archived users keep their history
	// but can no longer log in.
	Archive(ctx context.Context, id string, actorID string) error
	Restore(ctx context.Context, id string, actorID string) error
}
