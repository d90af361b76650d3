// Package registry holds the process-wide transient stores: one-time codes,
// reset tokens and the login throttle. All three are mutex-guarded maps that
// expire entries lazily on access; they hold no state across restarts.
package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type OTPResult int

const (
	OTPOK OTPResult = iota
	OTPExpired
	OTPInvalid
	OTPNotFound
)

type otpEntry struct {
	codeHash  []byte
	expiresAt time.Time
}

// OTPRegistry keeps at most one live code per email; issuing again
// overwrites the previous entry.
type OTPRegistry struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewOTPRegistry(ttl time.Duration) *OTPRegistry {
	return &OTPRegistry{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue draws a fresh 6-digit code uniformly from [100000, 999999] and
// stores its bcrypt hash with the expiry. The plaintext code is returned
// for delivery and kept nowhere else.
func (r *OTPRegistry) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to draw otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[email] = otpEntry{codeHash: hash, expiresAt: r.now().Add(r.ttl)}

	return code, nil
}

// Verify resolves a candidate code. A correct code consumes the entry so a
// second verification returns OTPNotFound; a wrong one leaves it in place
// for retries until expiry. Expired entries are deleted on detection.
func (r *OTPRegistry) Verify(email, candidate string) OTPResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[email]
	if !ok {
		return OTPNotFound
	}

	if r.now().After(entry.expiresAt) {
		delete(r.entries, email)
		return OTPExpired
	}

	if bcrypt.CompareHashAndPassword(entry.codeHash, []byte(candidate)) != nil {
		return OTPInvalid
	}

	delete(r.entries, email)
	return OTPOK
}
