package registry

import "sync"

// LoginThrottle counts consecutive failed logins per identity. Once the
// count reaches the threshold the identity is locked; there is no timed
// unlock — only a successful login or a completed password reset clears it.
type LoginThrottle struct {
	mu       sync.Mutex
	attempts map[string]int
	max      int
}

func NewLoginThrottle(max int) *LoginThrottle {
	return &LoginThrottle{
		attempts: make(map[string]int),
		max:      max,
	}
}

// RecordFailure increments the count, clamped at the threshold. Failures
// beyond lockout are accepted without effect.
func (t *LoginThrottle) RecordFailure(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.attempts[identity] < t.max {
		t.attempts[identity]++
	}
}

// Reset clears the counter, reopening the identity.
func (t *LoginThrottle) Reset(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.attempts, identity)
}

func (t *LoginThrottle) IsLocked(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.attempts[identity] >= t.max
}

// AttemptsLeft reports how many failures remain before lockout, floored
// at zero.
func (t *LoginThrottle) AttemptsLeft(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	left := t.max - t.attempts[identity]
	if left < 0 {
		return 0
	}
	return left
}
