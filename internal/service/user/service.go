package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/config"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/email"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

type UserServiceImpl struct {
	db *database.DB
	user.UserRepository
	audit.AuditLogRepository
	email.EmailService
	cfg *config.Config
}

func NewUserService(db *database.DB, userRepository user.UserRepository, auditRepository audit.AuditLogRepository, emailService email.EmailService, cfg *config.Config) user.UserService {
	return &UserServiceImpl{
		db:                 db,
		UserRepository:     userRepository,
		AuditLogRepository: auditRepository,
		EmailService:       emailService,
		cfg:                cfg,
	}
}

// Create implements user.UserService. The account starts in
// pending_onboarding with a single-use token; the invitation email is
// best-effort since the token is also returned to the creator.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest, actorID string) (user.CreatedUserResponse, error) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(s.cfg.Onboarding.TokenTTL)

	jobRates := req.JobRates
	if jobRates == nil {
		jobRates = map[string]decimal.Decimal{}
	}

	newUser := user.User{
		FullName:            req.FullName,
		Email:               req.Email,
		Role:                user.Role(req.Role),
		HourlyRate:          req.HourlyRate,
		JobRates:            jobRates,
		Status:              user.StatusPendingOnboarding,
		OnboardingToken:     &token,
		OnboardingExpiresAt: &expiresAt,
	}

	var created user.User
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		created, err = s.UserRepository.Create(txCtx, newUser)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionCreate,
			ResourceType: audit.ResourceUser,
			ResourceID:   created.ID,
			PHIAccessed:  false,
		})
		return err
	})
	if err != nil {
		return user.CreatedUserResponse{}, err
	}

	onboardingLink := fmt.Sprintf("%s/onboarding?token=%s", s.cfg.App.FrontendURL, token)
	if err := s.EmailService.SendOnboardingInvitation(created.Email, created.FullName, actorID, onboardingLink, expiresAt.Format(time.RFC1123)); err != nil {
		slog.Error("failed to send onboarding invitation", "user_id", created.ID, "error", err)
	}

	return user.CreatedUserResponse{
		UserResponse:        user.ToResponse(created),
		OnboardingToken:     token,
		OnboardingExpiresAt: expiresAt,
	}, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) (user.ListUsersResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return user.ListUsersResponse{}, err
	}

	resp := user.ListUsersResponse{Users: make([]user.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, user.ToResponse(u))
	}
	return resp, nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest, actorID string) (user.UserResponse, error) {
	existing, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FullName != nil {
		existing.FullName = *req.FullName
	}
	if req.Role != nil {
		existing.Role = user.Role(*req.Role)
	}
	if req.HourlyRate != nil {
		existing.HourlyRate = *req.HourlyRate
	}
	if req.JobRates != nil {
		existing.JobRates = req.JobRates
	}

	var updated user.User
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		updated, err = s.UserRepository.Update(txCtx, existing)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceUser,
			ResourceID:   updated.ID,
			PHIAccessed:  false,
		})
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(updated), nil
}

// Archive implements user.UserService.
func (s *UserServiceImpl) Archive(ctx context.Context, id string, actorID string) error {
	if _, err := s.UserRepository.GetByID(ctx, id); err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.UserRepository.UpdateStatus(txCtx, id, user.StatusArchived); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionArchive,
			ResourceType: audit.ResourceUser,
			ResourceID:   id,
			PHIAccessed:  false,
		})
		return err
	})
}

// Restore implements user.UserService.
func (s *UserServiceImpl) Restore(ctx context.Context, id string, actorID string) error {
	existing, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != user.StatusArchived {
		return nil
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.UserRepository.UpdateStatus(txCtx, id, user.StatusActive); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceUser,
			ResourceID:   id,
			PHIAccessed:  false,
		})
		return err
	})
}
