package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/auth"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/jwt"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
)

func testTxContext(t *testing.T) context.Context {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return postgresql.ContextWithTx(context.Background(), mock)
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByOnboardingToken(_ context.Context, token string) (user.User, error) {
	for _, u := range f.users {
		if u.OnboardingToken != nil && *u.OnboardingToken == token {
			return u, nil
		}
	}
	return user.User{}, user.ErrOnboardingTokenInvalid
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id string, status user.Status) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Status = status
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) CompleteOnboarding(_ context.Context, id string, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	u.OnboardingToken = nil
	u.OnboardingExpiresAt = nil
	u.OnboardingCompleted = true
	u.Status = user.StatusActive
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) LinkGoogleAccount(_ context.Context, googleID string, email string) (user.User, error) {
	for id, u := range f.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			f.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	f.users[id] = u
	return nil
}

type fakeRefreshTokenRepo struct {
	tokens  map[string]string
	revoked map[string]bool
}

func (f *fakeRefreshTokenRepo) Create(_ context.Context, userID string, token string, _ int64) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeRefreshTokenRepo) IsRevoked(_ context.Context, token string) (bool, error) {
	if _, ok := f.tokens[token]; !ok {
		return false, auth.ErrInvalidToken
	}
	return f.revoked[token], nil
}

func (f *fakeRefreshTokenRepo) Revoke(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

type testFixture struct {
	svc    auth.AuthService
	users  *fakeUserRepo
	tokens *fakeRefreshTokenRepo
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	onboardingToken := "fresh-onboarding-token"
	validUntil := time.Now().Add(time.Hour)
	expiredToken := "stale-onboarding-token"
	expiredAt := time.Now().Add(-time.Hour)

	users := &fakeUserRepo{users: map[string]user.User{
		"active-1": {
			ID: "active-1", FullName: "Dana Reyes", Email: "dana@example.com",
			PasswordHash: &hashStr, Role: user.RoleRN, Status: user.StatusActive,
		},
		"archived-1": {
			ID: "archived-1", FullName: "Old Timer", Email: "old@example.com",
			PasswordHash: &hashStr, Role: user.RoleStaff, Status: user.StatusArchived,
		},
		"pending-1": {
			ID: "pending-1", FullName: "New Hire", Email: "new@example.com",
			Role: user.RoleCNA, Status: user.StatusPendingOnboarding,
			OnboardingToken: &onboardingToken, OnboardingExpiresAt: &validUntil,
		},
		"expired-1": {
			ID: "expired-1", FullName: "Slow Hire", Email: "slow@example.com",
			Role: user.RoleCNA, Status: user.StatusPendingOnboarding,
			OnboardingToken: &expiredToken, OnboardingExpiresAt: &expiredAt,
		},
	}}
	tokens := &fakeRefreshTokenRepo{tokens: map[string]string{}, revoked: map[string]bool{}}

	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	svc := NewAuthService(nil, users, jwtService, tokens)
	return &testFixture{svc: svc, users: users, tokens: tokens}
}

func TestAuthService_Login(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	resp, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "dana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	// Refresh token is persisted for revocation checks.
	assert.Equal(t, "active-1", fx.tokens.tokens[resp.RefreshToken])
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	t.Run("wrong password", func(t *testing.T) {
		_, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "dana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_Login_ArchivedAccount(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	_, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "old@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountArchived)
}

func TestAuthService_Login_PendingOnboarding(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	u := fx.users.users["pending-1"]
	u.PasswordHash = &hashStr
	fx.users.users["pending-1"] = u

	_, err = fx.svc.Login(ctx, auth.LoginRequest{Email: "new@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrOnboardingRequired)
}

func TestAuthService_CompleteOnboarding(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	resp, err := fx.svc.CompleteOnboarding(ctx, auth.CompleteOnboardingRequest{
		Token:    "fresh-onboarding-token",
		Password: "newpassword456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	activated := fx.users.users["pending-1"]
	assert.Equal(t, user.StatusActive, activated.Status)
	assert.True(t, activated.OnboardingCompleted)
	assert.Nil(t, activated.OnboardingToken)

	t.Run("token is single use", func(t *testing.T) {
		_, err := fx.svc.CompleteOnboarding(ctx, auth.CompleteOnboardingRequest{
			Token:    "fresh-onboarding-token",
			Password: "another",
		})
		assert.ErrorIs(t, err, user.ErrOnboardingTokenInvalid)
	})

	t.Run("login works with the new password", func(t *testing.T) {
		_, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "new@example.com", Password: "newpassword456"})
		assert.NoError(t, err)
	})
}

func TestAuthService_CompleteOnboarding_ExpiredToken(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	_, err := fx.svc.CompleteOnboarding(ctx, auth.CompleteOnboardingRequest{
		Token:    "stale-onboarding-token",
		Password: "newpassword456",
	})
	assert.ErrorIs(t, err, user.ErrOnboardingTokenInvalid)
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	login, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "dana@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := fx.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := fx.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := fx.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	login, err := fx.svc.Login(ctx, auth.LoginRequest{Email: "dana@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, login.RefreshToken))

	_, err = fx.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	t.Run("empty token is a no-op", func(t *testing.T) {
		assert.NoError(t, fx.svc.Logout(ctx, ""))
	})
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture(t)

	resp, err := fx.svc.LoginWithGoogle(ctx, "dana@example.com", "google-123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	linked := fx.users.users["active-1"]
	require.NotNil(t, linked.OAuthProviderID)
	assert.Equal(t, "google-123", *linked.OAuthProviderID)

	t.Run("mismatched provider id", func(t *testing.T) {
		_, err := fx.svc.LoginWithGoogle(ctx, "dana@example.com", "google-999")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := fx.svc.LoginWithGoogle(ctx, "ghost@example.com", "google-123")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
