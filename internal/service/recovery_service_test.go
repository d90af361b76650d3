package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberauth/cyberauth/internal/domain"
	"github.com/cyberauth/cyberauth/internal/password"
	"github.com/cyberauth/cyberauth/internal/registry"
	"github.com/cyberauth/cyberauth/pkg/config"
	"github.com/cyberauth/cyberauth/pkg/events"
)

type recoveryFixture struct {
	svc      RecoveryService
	dir      *mockDirectory
	otps     *registry.OTPRegistry
	tokens   *registry.TokenRegistry
	throttle *registry.LoginThrottle
	hasher   *fakeHasher
	mail     *mockMailer
	bus      *mockPublisher
}

func newRecoveryFixture(t *testing.T) *recoveryFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.OTPTTL = 5 * time.Minute
	cfg.Auth.ResetTokenTTL = 10 * time.Minute
	cfg.Auth.MaxLoginAttempts = 3

	f := &recoveryFixture{
		dir:      newMockDirectory(),
		otps:     registry.NewOTPRegistry(cfg.Auth.OTPTTL),
		tokens:   registry.NewTokenRegistry(cfg.Auth.ResetTokenTTL),
		throttle: registry.NewLoginThrottle(cfg.Auth.MaxLoginAttempts),
		hasher:   &fakeHasher{},
		mail:     &mockMailer{},
		bus:      &mockPublisher{},
	}
	f.svc = NewRecoveryService(f.dir, f.otps, f.tokens, f.throttle, f.hasher, f.mail, f.bus, cfg)

	_, err := f.dir.Insert(context.Background(), &domain.User{
		Name:         "Asha Verma",
		NationalID:   "123456789012",
		Phone:        "9876543210",
		Email:        "a@x.com",
		PasswordHash: "digest:old-password:0",
		Reward:       "🚀",
	})
	require.NoError(t, err)

	return f
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	f := newRecoveryFixture(t)

	err := f.svc.RequestReset(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.mail.sends)
}

func TestRequestReset_SendsOTP(t *testing.T) {
	f := newRecoveryFixture(t)

	err := f.svc.RequestReset(context.Background(), "A@X.com")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", f.mail.lastTo)
	assert.Equal(t, "Asha Verma", f.mail.lastName)
	assert.Len(t, f.mail.lastCode, 6)
	assert.Equal(t, 5, f.mail.lastExpiry)
}

func TestRequestReset_MailerFailureLeavesOTPUsable(t *testing.T) {
	f := newRecoveryFixture(t)
	f.mail.sendErr = assert.AnError

	err := f.svc.RequestReset(context.Background(), "a@x.com")
	require.ErrorIs(t, err, domain.ErrExternalService)

	// no rollback: the issued code still verifies
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestVerifyOTP_Classification(t *testing.T) {
	f := newRecoveryFixture(t)

	_, err := f.svc.VerifyOTP(context.Background(), "a@x.com", "123456")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))

	// a wrong code is retryable: the entry survives
	_, err = f.svc.VerifyOTP(context.Background(), "a@x.com", "000000")
	require.ErrorIs(t, err, domain.ErrInvalidSecret)

	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// the code was consumed by the successful verification
	_, err = f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetPassword_FullFlow(t *testing.T) {
	f := newRecoveryFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)

	// the reset form can look the token up repeatedly
	for i := 0; i < 2; i++ {
		email, err := f.svc.InspectToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", email)
	}

	result, err := f.svc.ResetPassword(context.Background(), token, domain.ExplicitPassword("xRa1210yy"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.Email)
	assert.Empty(t, result.GeneratedPassword)

	// the stored hash now matches the new password
	stored := f.dir.byEmail["a@x.com"]
	valid, err := f.hasher.Verify("xRa1210yy", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)

	assert.True(t, f.bus.published(events.PasswordReset))

	// the token was consumed by the successful reset
	_, err = f.svc.InspectToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrExpired)
	_, err = f.svc.ResetPassword(context.Background(), token, domain.ExplicitPassword("xRa1210yy"))
	require.ErrorIs(t, err, domain.ErrExpired)
}

func TestResetPassword_AutoGenerate(t *testing.T) {
	f := newRecoveryFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)

	result, err := f.svc.ResetPassword(context.Background(), token, domain.AutoGeneratePassword())
	require.NoError(t, err)
	require.NotEmpty(t, result.GeneratedPassword)

	ok, reason := password.Validate(result.GeneratedPassword, "Verma", "123456789012", "9876543210")
	assert.True(t, ok, reason)

	stored := f.dir.byEmail["a@x.com"]
	valid, err := f.hasher.Verify(result.GeneratedPassword, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestResetPassword_PolicyViolationKeepsToken(t *testing.T) {
	f := newRecoveryFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)

	_, err = f.svc.ResetPassword(context.Background(), token, domain.ExplicitPassword("zzzzzzzz"))
	require.ErrorIs(t, err, domain.ErrValidation)

	// the token survives a failed validation so the user can retry
	email, err := f.svc.InspectToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	f := newRecoveryFixture(t)

	_, err := f.svc.ResetPassword(context.Background(), "no-such-token", domain.AutoGeneratePassword())
	require.ErrorIs(t, err, domain.ErrExpired)
}

func TestResetPassword_ReopensLockedAccount(t *testing.T) {
	f := newRecoveryFixture(t)

	for i := 0; i < 3; i++ {
		f.throttle.RecordFailure("Asha Verma")
	}
	require.True(t, f.throttle.IsLocked("Asha Verma"))

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)
	_, err = f.svc.ResetPassword(context.Background(), token, domain.AutoGeneratePassword())
	require.NoError(t, err)

	assert.False(t, f.throttle.IsLocked("Asha Verma"))
}

func TestResetPassword_DirectoryFailureKeepsToken(t *testing.T) {
	f := newRecoveryFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token, err := f.svc.VerifyOTP(context.Background(), "a@x.com", f.mail.lastCode)
	require.NoError(t, err)

	f.dir.updateErr = assert.AnError
	_, err = f.svc.ResetPassword(context.Background(), token, domain.AutoGeneratePassword())
	require.ErrorIs(t, err, domain.ErrExternalService)

	// no partial state: the token is only consumed after a successful update
	f.dir.updateErr = nil
	email, err := f.svc.InspectToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}
