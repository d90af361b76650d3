package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyberauth/cyberauth/internal/domain"
	"github.com/cyberauth/cyberauth/internal/mailer"
	"github.com/cyberauth/cyberauth/internal/password"
	"github.com/cyberauth/cyberauth/internal/registry"
	"github.com/cyberauth/cyberauth/internal/repository"
	"github.com/cyberauth/cyberauth/pkg/config"
	"github.com/cyberauth/cyberauth/pkg/events"
	"github.com/cyberauth/cyberauth/pkg/logger"
)

// RecoveryService drives the forgot → verify-OTP → reset-password flow.
type RecoveryService interface {
	RequestReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	InspectToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token string, input domain.PasswordInput) (*domain.ResetResult, error)
}

type recoveryService struct {
	users    repository.UserDirectory
	otps     *registry.OTPRegistry
	tokens   *registry.TokenRegistry
	throttle *registry.LoginThrottle
	hasher   password.Hasher
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
}

func NewRecoveryService(
	users repository.UserDirectory,
	otps *registry.OTPRegistry,
	tokens *registry.TokenRegistry,
	throttle *registry.LoginThrottle,
	hasher password.Hasher,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
) RecoveryService {
	return &recoveryService{
		users:    users,
		otps:     otps,
		tokens:   tokens,
		throttle: throttle,
		hasher:   hasher,
		mailer:   mailer,
		eventBus: eventBus,
		config:   config,
	}
}

// RequestReset issues an OTP for a known email and mails it. A notifier
// failure is surfaced but the issued OTP stays usable.
func (s *recoveryService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: failed to find user: %v", domain.ErrExternalService, err)
	}
	if user == nil {
		return fmt.Errorf("%w: email not found", domain.ErrNotFound)
	}

	code, err := s.otps.Issue(email)
	if err != nil {
		return fmt.Errorf("failed to issue otp: %w", err)
	}

	expiryMinutes := int(s.config.Auth.OTPTTL.Minutes())
	if err := s.mailer.SendOTP(email, user.Name, code, expiryMinutes); err != nil {
		logger.ErrorContext(ctx, "Failed to send otp email", "error", err, "email", email)
		return fmt.Errorf("%w: failed to send otp email", domain.ErrExternalService)
	}

	return nil
}

// VerifyOTP exchanges a correct in-window code for a reset token. A wrong
// code may be retried; an expired or missing one restarts the flow.
func (s *recoveryService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	switch s.otps.Verify(email, code) {
	case registry.OTPOK:
		token, err := s.tokens.Issue(email)
		if err != nil {
			return "", fmt.Errorf("failed to issue reset token: %w", err)
		}
		return token, nil
	case registry.OTPExpired:
		return "", fmt.Errorf("%w: otp expired, request a new one", domain.ErrExpired)
	case registry.OTPInvalid:
		return "", fmt.Errorf("%w: incorrect otp", domain.ErrInvalidSecret)
	default:
		return "", fmt.Errorf("%w: otp expired or invalid, request again", domain.ErrNotFound)
	}
}

// InspectToken resolves a token to its email without consuming it, for
// rendering the reset form. Unknown and expired tokens are reported alike.
func (s *recoveryService) InspectToken(ctx context.Context, token string) (string, error) {
	email, res := s.tokens.Peek(token)
	if res != registry.TokenOK {
		return "", fmt.Errorf("%w: invalid or expired reset token", domain.ErrExpired)
	}
	return email, nil
}

// ResetPassword validates or generates a new password for the token's user,
// writes the hash through the directory, and only then consumes the token.
// A completed reset also reopens the login throttle for the user.
func (s *recoveryService) ResetPassword(ctx context.Context, token string, input domain.PasswordInput) (*domain.ResetResult, error) {
	email, res := s.tokens.Peek(token)
	if res != registry.TokenOK {
		return nil, fmt.Errorf("%w: invalid or expired reset token", domain.ErrExpired)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find user: %v", domain.ErrExternalService, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user record no longer exists", domain.ErrNotFound)
	}

	lastName := domain.LastName(user.Name)

	var plaintext string
	var generated bool
	if input.Auto() {
		plaintext = password.Generate(lastName, user.NationalID, user.Phone)
		generated = true
	} else {
		plaintext = input.Password()
		if ok, reason := password.Validate(plaintext, lastName, user.NationalID, user.Phone); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, reason)
		}
	}

	passwordHash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, email, passwordHash); err != nil {
		return nil, fmt.Errorf("%w: failed to update password: %v", domain.ErrExternalService, err)
	}

	s.tokens.Consume(token)
	s.throttle.Reset(user.Name)

	s.publish(ctx, events.PasswordReset, map[string]string{"email": email})

	result := &domain.ResetResult{Email: email}
	if generated {
		result.GeneratedPassword = plaintext
	}
	return result, nil
}

func (s *recoveryService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.eventBus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
