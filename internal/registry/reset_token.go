package registry

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

type TokenResult int

const (
	TokenOK TokenResult = iota
	TokenExpired
	TokenNotFound
)

type tokenEntry struct {
	email     string
	expiresAt time.Time
}

// TokenRegistry maps opaque reset tokens to the email they were issued for.
// Tokens are single-use: Peek reads without consuming (for rendering the
// reset form), Consume deletes (after the password update lands).
type TokenRegistry struct {
	mu      sync.Mutex
	entries map[string]tokenEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewTokenRegistry(ttl time.Duration) *TokenRegistry {
	return &TokenRegistry{
		entries: make(map[string]tokenEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue mints a URL-safe token backed by 24 bytes of crypto/rand entropy.
func (r *TokenRegistry) Issue(email string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to draw reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[token] = tokenEntry{email: email, expiresAt: r.now().Add(r.ttl)}

	return token, nil
}

// Peek returns the bound email without consuming the token. Expired entries
// are deleted on detection.
func (r *TokenRegistry) Peek(token string) (string, TokenResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(token, false)
}

// Consume returns the bound email and deletes the entry, so a second
// Consume or Peek on the same token reports TokenNotFound.
func (r *TokenRegistry) Consume(token string) (string, TokenResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(token, true)
}

// resolve must be called with the mutex held.
func (r *TokenRegistry) resolve(token string, consume bool) (string, TokenResult) {
	entry, ok := r.entries[token]
	if !ok {
		return "", TokenNotFound
	}

	if r.now().After(entry.expiresAt) {
		delete(r.entries, token)
		return "", TokenExpired
	}

	if consume {
		delete(r.entries, token)
	}
	return entry.email, TokenOK
}
