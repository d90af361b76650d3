package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	NationalID   string    `json:"-"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Reward       string    `json:"reward"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Rewards is the fixed set of decorative symbols assigned on signup.
var Rewards = []string{"😀", "🎉", "🚀", "🔥", "🌟", "💎", "✨"}

// PasswordInput is the tagged choice between a user-supplied password and a
// request to auto-generate one that satisfies the policy.
type PasswordInput struct {
	password string
	auto     bool
}

func ExplicitPassword(password string) PasswordInput {
	return PasswordInput{password: password}
}

func AutoGeneratePassword() PasswordInput {
	return PasswordInput{auto: true}
}

func (p PasswordInput) Auto() bool {
	return p.auto
}

func (p PasswordInput) Password() string {
	return p.password
}

type SignupRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	// AutoPassword requests a generated password; Password is ignored.
	AutoPassword bool `json:"auto_password"`
}

type SignupResult struct {
	User *User `json:"user"`
	// GeneratedPassword is set only when the password was auto-generated.
	// Shown once to the user, never stored or logged.
	GeneratedPassword string `json:"generated_password,omitempty"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResult struct {
	Username string `json:"username"`
	Reward   string `json:"reward"`
}

type ResetResult struct {
	Email             string `json:"email"`
	GeneratedPassword string `json:"generated_password,omitempty"`
}

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
)

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *SignupRequest) Validate() error {
	if len(strings.Fields(r.Name)) < 2 {
		return fmt.Errorf("%w: enter full name: first + last", ErrValidation)
	}
	if len(r.NationalID) != 12 || !digitsRegex.MatchString(r.NationalID) {
		return fmt.Errorf("%w: national ID must be exactly 12 digits", ErrValidation)
	}
	if len(r.Phone) != 10 || !digitsRegex.MatchString(r.Phone) {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if !r.AutoPassword && r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *LoginRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// LastName returns the final whitespace-delimited segment of a full name.
func LastName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
