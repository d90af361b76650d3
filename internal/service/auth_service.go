package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/cyberauth/cyberauth/internal/domain"
	"github.com/cyberauth/cyberauth/internal/password"
	"github.com/cyberauth/cyberauth/internal/registry"
	"github.com/cyberauth/cyberauth/internal/repository"
	"github.com/cyberauth/cyberauth/pkg/events"
	"github.com/cyberauth/cyberauth/pkg/logger"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResult, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)
}

type authService struct {
	users    repository.UserDirectory
	hasher   password.Hasher
	throttle *registry.LoginThrottle
	eventBus events.Publisher
}

func NewAuthService(
	users repository.UserDirectory,
	hasher password.Hasher,
	throttle *registry.LoginThrottle,
	eventBus events.Publisher,
) AuthService {
	return &authService{
		users:    users,
		hasher:   hasher,
		throttle: throttle,
		eventBus: eventBus,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lastName := domain.LastName(req.Name)

	var plaintext string
	var generated bool
	if req.AutoPassword {
		plaintext = password.Generate(lastName, req.NationalID, req.Phone)
		generated = true
	} else {
		plaintext = req.Password
		if ok, reason := password.Validate(plaintext, lastName, req.NationalID, req.Phone); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, reason)
		}
	}

	passwordHash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		NationalID:   req.NationalID,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Reward:       domain.Rewards[rand.Intn(len(domain.Rewards))],
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to insert user: %v", domain.ErrExternalService, err)
	}

	s.publish(ctx, events.UserRegistered, map[string]string{"name": created.Name, "email": created.Email})

	result := &domain.SignupResult{User: created}
	if generated {
		result.GeneratedPassword = plaintext
	}
	return result, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find user: %v", domain.ErrExternalService, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}

	if s.throttle.IsLocked(req.Name) {
		return nil, fmt.Errorf("%w: too many attempts, try forgot password", domain.ErrLocked)
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		s.throttle.RecordFailure(req.Name)
		if s.throttle.IsLocked(req.Name) {
			s.publish(ctx, events.UserLocked, map[string]string{"name": req.Name})
		}
		return nil, &domain.WrongPasswordError{AttemptsLeft: s.throttle.AttemptsLeft(req.Name)}
	}

	s.throttle.Reset(req.Name)

	return &domain.LoginResult{
		Username: user.Name,
		Reward:   user.Reward,
	}, nil
}

func (s *authService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.eventBus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
