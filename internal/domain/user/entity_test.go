package user

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUser_OnboardingTokenValid(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	token := "onboarding-token"

	expiry := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}

	t.Run("valid token", func(t *testing.T) {
		u := User{OnboardingToken: &token, OnboardingExpiresAt: expiry(time.Hour)}
		assert.True(t, u.OnboardingTokenValid(now))
	})

	t.Run("expired token", func(t *testing.T) {
		u := User{OnboardingToken: &token, OnboardingExpiresAt: expiry(-time.Minute)}
		assert.False(t, u.OnboardingTokenValid(now))
	})

	t.Run("already completed", func(t *testing.T) {
		u := User{OnboardingToken: &token, OnboardingExpiresAt: expiry(time.Hour), OnboardingCompleted: true}
		assert.False(t, u.OnboardingTokenValid(now))
	})

	t.Run("cleared token", func(t *testing.T) {
		u := User{OnboardingExpiresAt: expiry(time.Hour)}
		assert.False(t, u.OnboardingTokenValid(now))
	})
}

func TestUser_RateForJob(t *testing.T) {
	u := User{
		HourlyRate: decimal.NewFromInt(20),
		JobRates: map[string]decimal.Decimal{
			"Night RN": decimal.NewFromInt(35),
		},
	}

	assert.True(t, decimal.NewFromInt(35).Equal(u.RateForJob("Night RN")))
	assert.True(t, decimal.NewFromInt(20).Equal(u.RateForJob("Day CNA")))

	var noRates User
	noRates.HourlyRate = decimal.NewFromInt(18)
	assert.True(t, decimal.NewFromInt(18).Equal(noRates.RateForJob("anything")))
}
